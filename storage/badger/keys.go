package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/newswire/core"
)

// Key prefixes for different data types
const (
	articlePrefix     = "artrec"
	articleProcPrefix = "artproc"
	articleHashPrefix = "arthash"
	articleIDSeq      = "artrecseq"
	rulePrefix        = "pubrule"
	ruleIDSeq         = "pubruleseq"
	queuePrefix       = "quitem"
	queueSeqKey       = "quitemseq"
)

// makeArticleKey generates a key for an article by ID.
func makeArticleKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", articlePrefix, id))
}

// makeArticleProcKey generates a composite key for the processed-at index.
// Format: prefix:timestampMicros:id, written in BigEndian order so
// lexicographic sort matches chronological sort.
func makeArticleProcKey(processedAtMicros int64, id core.ID) []byte {
	prefix := articleProcPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(processedAtMicros))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// articleProcKeyPrefix returns the processed-at index prefix.
func articleProcKeyPrefix() []byte {
	return []byte(articleProcPrefix + ":")
}

// makeArticleHashKey generates a key for the content-hash index.
func makeArticleHashKey(hash string) []byte {
	return []byte(articleHashPrefix + ":" + hash)
}

// makeRuleKey generates a key for a rule by ID. IDs are written in BigEndian
// so key order matches insertion order, which is the rule evaluation order.
func makeRuleKey(id core.ID) []byte {
	prefix := rulePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeQueueKey generates a key for a queued payload by sequence number,
// BigEndian so key order matches enqueue order.
func makeQueueKey(seq uint64) []byte {
	prefix := queuePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
