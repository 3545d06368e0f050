package service

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"

	"persona-engine/internal/domain"
)

// AnswerFingerprint identifies an answer set independently of answer order. Two answer
// lists with the same fingerprint always score identically.
func AnswerFingerprint(answers []domain.Answer) string {
	sorted := append([]domain.Answer(nil), answers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].QuestionID < sorted[j].QuestionID })

	h, _ := blake2b.New256(nil)
	buf := make([]byte, 16)
	for _, a := range sorted {
		binary.BigEndian.PutUint64(buf[:8], uint64(int64(a.QuestionID)))
		binary.BigEndian.PutUint64(buf[8:], uint64(int64(a.Value)))
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}
