package document

import (
	"encoding/binary"
	"math"
	"time"

	domdoc "github.com/kailas-cloud/adaptrank/internal/domain/document"
)

// Hash field names. Double-underscore prefixes keep service fields from
// colliding with future user-defined attributes.
const (
	fieldContent   = "__content"
	fieldCategory  = "__category"
	fieldCreatedAt = "__created_at"
	fieldVector    = "__vector"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *domdoc.Document) map[string]string {
	m := map[string]string{
		fieldContent:   doc.Content(),
		fieldCreatedAt: doc.CreatedAt().Format(time.RFC3339Nano),
		fieldVector:    vectorToBytes(doc.Vector()),
	}
	if doc.Category() != "" {
		m[fieldCategory] = doc.Category()
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(id string, m map[string]string) domdoc.Document {
	var createdAt time.Time
	if raw := m[fieldCreatedAt]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			createdAt = t
		}
	}
	return domdoc.Reconstruct(id, m[fieldContent], m[fieldCategory], bytesToVector(m[fieldVector]), createdAt)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
