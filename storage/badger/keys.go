package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/corpora/core"
)

// Key prefixes. Every prefix ends in ':' so that no prefix scan over one
// key family can match another.
const (
	documentPrefix         = "doc:"
	documentChecksumPrefix = "docsum:"
	documentCategoryPrefix = "doccat:"
	documentIDSeq          = "docseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s%d", documentPrefix, id))
}

// makeChecksumKey generates the checksum index key.
// Format: prefix:checksum
func makeChecksumKey(checksum string) []byte {
	return []byte(documentChecksumPrefix + checksum)
}

// makeCategoryKey generates a composite key for the category index.
// Format: prefix:category:id
func makeCategoryKey(category core.Category, id core.ID) []byte {
	prefix := makePartialCategoryKey(category)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCategoryKey generates a partial key for category queries.
// Format: prefix:category:
func makePartialCategoryKey(category core.Category) []byte {
	return []byte(fmt.Sprintf("%s%s:", documentCategoryPrefix, category))
}
