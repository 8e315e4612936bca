package analysis

import "github.com/poiesic/corpora/core"

// categoryKeywords maps each category to the tokens that vote for it.
// CategoryGeneral has no keywords; it is the fallback.
var categoryKeywords = map[core.Category][]string{
	core.CategorySecurity: {
		"security", "auth", "authentication", "authorization", "password",
		"passwords", "secret", "secrets", "vulnerability", "encryption", "tls",
		"ssl", "certificate", "certificates", "firewall", "oauth", "rbac",
		"cve", "credentials", "hardening",
	},
	core.CategoryInfrastructure: {
		"infrastructure", "infra", "server", "servers", "network", "networking",
		"kubernetes", "k8s", "docker", "terraform", "cluster", "provisioning",
		"dns", "vpc", "ansible", "helm", "vm", "storage",
	},
	core.CategoryOperations: {
		"operations", "ops", "monitoring", "alert", "alerts", "alerting",
		"incident", "incidents", "backup", "backups", "oncall", "runbook",
		"sla", "outage", "rollback", "deployment", "restore", "escalation",
	},
	core.CategoryDevelopment: {
		"development", "dev", "code", "api", "function", "build", "test",
		"testing", "git", "library", "sdk", "refactor", "debug", "debugging",
		"compile", "repository", "commit", "review",
	},
	core.CategoryData: {
		"data", "database", "databases", "sql", "schema", "query", "queries",
		"etl", "pipeline", "analytics", "table", "tables", "postgres",
		"mysql", "warehouse", "dataset", "index",
	},
}

// kindKeywords maps each kind to the tokens that vote for it.
// KindKnowledge has no keywords; it is the fallback.
var kindKeywords = map[core.Kind][]string{
	core.KindProcedure: {
		"procedure", "procedures", "runbook", "step", "steps", "checklist",
		"playbook", "sop",
	},
	core.KindGuide: {
		"guide", "tutorial", "howto", "walkthrough", "quickstart",
		"introduction", "learn",
	},
	core.KindConfig: {
		"config", "configuration", "settings", "yaml", "yml", "toml", "ini",
		"env", "properties",
	},
	core.KindReference: {
		"reference", "api", "spec", "specification", "glossary", "faq",
		"changelog", "parameters",
	},
}

// importanceKeywords raise the importance score when present in content.
var importanceKeywords = []string{
	"critical", "important", "required", "must", "mandatory", "warning",
	"essential", "production", "security", "compliance",
}

// canonicalNames are base names that mark a document as a corpus entry point.
var canonicalNames = map[string]bool{
	"readme":          true,
	"index":           true,
	"overview":        true,
	"architecture":    true,
	"security":        true,
	"getting-started": true,
	"getting_started": true,
	"contributing":    true,
}

// coreDirectories mark content on a critical path.
var coreDirectories = map[string]bool{
	"core":       true,
	"critical":   true,
	"essential":  true,
	"production": true,
	"prod":       true,
	"main":       true,
	"policies":   true,
}

// technicalTerms is every category keyword, used for complexity density.
var technicalTerms = func() map[string]bool {
	terms := make(map[string]bool)
	for _, words := range categoryKeywords {
		for _, w := range words {
			terms[w] = true
		}
	}
	return terms
}()
