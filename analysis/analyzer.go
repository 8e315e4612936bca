package analysis

import (
	"context"
	"math"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/source"
)

const (
	// pathWeight is how much a keyword found in the path outweighs one
	// found in the content.
	pathWeight = 10

	// filenameBonus is added per kind keyword found in the file name.
	filenameBonus = 5

	maxKeywordTags = 5
)

// Analyzer classifies and scores documents. It holds no mutable state and
// is safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates an analyzer with the built-in keyword tables.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeDocument reads a document and analyzes it.
// Every failure is returned as an *AnalysisError.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc source.Document) (*core.Item, error) {
	if doc.Read == nil {
		return nil, &AnalysisError{Path: doc.Path, Cause: ErrNoReader}
	}
	raw, err := doc.Read(ctx)
	if err != nil {
		return nil, &AnalysisError{Path: doc.Path, Cause: err}
	}
	return a.Analyze(doc.Path, raw)
}

// Analyze builds an item from a path and its raw bytes.
// Identical input always yields an identical item.
func (a *Analyzer) Analyze(sourcePath string, raw []byte) (*core.Item, error) {
	if !utf8.Valid(raw) {
		return nil, &AnalysisError{Path: sourcePath, Cause: ErrNotText}
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, &AnalysisError{Path: sourcePath, Cause: ErrEmptyDocument}
	}

	fmTitle, fmTags, body := splitFrontMatter(raw)
	s := scanStructure(string(body))
	pathTokens := tokenize(sourcePath)
	nameTokens := tokenize(path.Base(toSlash(sourcePath)))

	title := fmTitle
	if title == "" {
		title = s.firstHeading
	}
	hasTitle := title != ""
	if !hasTitle {
		title = titleFromPath(sourcePath)
	}

	contentCounts := countTokens(s.tokens)
	category, matched := classify(contentCounts, countTokens(pathTokens))
	kind := inferKind(contentCounts, countTokens(nameTokens), s)

	return &core.Item{
		ID:              core.ItemIDFromPath(sourcePath),
		SourcePath:      sourcePath,
		RawContent:      raw,
		SizeBytes:       int64(len(raw)),
		Checksum:        core.Checksum(raw),
		Title:           title,
		Category:        category,
		Kind:            kind,
		Tags:            buildTags(matched, kind, sourcePath, fmTags),
		QualityScore:    qualityScore(s, hasTitle),
		ComplexityScore: complexityScore(s),
		ImportanceScore: importanceScore(sourcePath, contentCounts, len(raw)),
	}, nil
}

func countTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// classify scores every category and returns the argmax together with the
// keywords matched for it.
func classify(content, pathCounts map[string]int) (core.Category, map[string]int) {
	best := core.CategoryGeneral
	bestScore := 0
	var bestMatched map[string]int

	// core.Categories is in tie-break order, so only a strictly higher
	// score replaces the current best.
	for _, c := range core.Categories {
		score := 0
		matched := make(map[string]int)
		for _, kw := range categoryKeywords[c] {
			hits := content[kw] + pathWeight*pathCounts[kw]
			if hits > 0 {
				score += hits
				matched[kw] = hits
			}
		}
		if score > bestScore {
			best, bestScore, bestMatched = c, score, matched
		}
	}
	return best, bestMatched
}

func inferKind(content, nameCounts map[string]int, s structure) core.Kind {
	best := core.KindKnowledge
	bestScore := 0

	for _, k := range core.Kinds {
		score := 0
		for _, kw := range kindKeywords[k] {
			if content[kw] > 0 {
				score++
			}
			if nameCounts[kw] > 0 {
				score += filenameBonus
			}
		}
		if k == core.KindProcedure && s.orderedItems >= 3 {
			score += 2
		}
		if score > bestScore {
			best, bestScore = k, score
		}
	}
	return best
}

func buildTags(matched map[string]int, kind core.Kind, sourcePath string, extra []string) []string {
	keywords := make([]string, 0, len(matched))
	for kw := range matched {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if matched[keywords[i]] != matched[keywords[j]] {
			return matched[keywords[i]] > matched[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > maxKeywordTags {
		keywords = keywords[:maxKeywordTags]
	}

	set := make(map[string]bool)
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && tag != "." && tag != "/" {
			set[tag] = true
		}
	}
	for _, kw := range keywords {
		add(kw)
	}
	add(kind.String())
	add(path.Base(path.Dir(toSlash(sourcePath))))
	for _, t := range extra {
		add(t)
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// qualityScore is a weighted sum of structural signals.
func qualityScore(s structure, hasTitle bool) float64 {
	score := 0.0
	if s.headings > 0 {
		score += 0.2
	}
	if s.codeBlocks > 0 {
		score += 0.15
	}
	if s.listItems > 0 {
		score += 0.15
	}
	if s.links > 0 {
		score += 0.1
	}
	if hasTitle {
		score += 0.1
	}
	switch {
	case s.words >= 100 && s.words <= 5000:
		score += 0.3
	case s.words >= 30 && s.words <= 20000:
		score += 0.15
	}
	return core.Clamp01(score)
}

// complexityScore combines technical term density, code block size and
// structural nesting depth.
func complexityScore(s structure) float64 {
	density := 0.0
	if len(s.tokens) > 0 {
		technical := 0
		for _, t := range s.tokens {
			if technicalTerms[t] {
				technical++
			}
		}
		density = float64(technical) / float64(len(s.tokens))
	}

	avgCode := 0.0
	if s.codeBlocks > 0 {
		avgCode = float64(s.codeLines) / float64(s.codeBlocks)
	}

	depth := max(s.maxHeadingDepth-1, s.maxListNesting-1, 0)

	score := 0.4*math.Min(density*10, 1) +
		0.3*math.Min(avgCode/30, 1) +
		0.3*math.Min(float64(depth)/4, 1)
	return core.Clamp01(score)
}

// importanceScore combines path signals, importance keywords and a size band.
func importanceScore(sourcePath string, content map[string]int, size int) float64 {
	score := 0.0

	slashed := strings.ToLower(toSlash(sourcePath))
	name := strings.TrimSuffix(path.Base(slashed), path.Ext(slashed))
	if canonicalNames[name] {
		score += 0.3
	}
	for _, dir := range strings.Split(path.Dir(slashed), "/") {
		if coreDirectories[dir] {
			score += 0.2
			break
		}
	}

	hits := 0
	for _, kw := range importanceKeywords {
		hits += content[kw]
	}
	score += 0.3 * math.Min(float64(hits)/5, 1)

	switch {
	case size >= 1024 && size <= 50*1024:
		score += 0.2
	case size >= 200 && size <= 200*1024:
		score += 0.1
	}
	return core.Clamp01(score)
}

// titleFromPath derives a readable title from the file name,
// e.g. "ops/disk-full_runbook.md" becomes "Disk Full Runbook".
func titleFromPath(sourcePath string) string {
	name := baseName(sourcePath)
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	if len(words) == 0 {
		return sourcePath
	}
	return strings.Join(words, " ")
}

func baseName(sourcePath string) string {
	base := path.Base(toSlash(sourcePath))
	return strings.TrimSuffix(base, path.Ext(base))
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
