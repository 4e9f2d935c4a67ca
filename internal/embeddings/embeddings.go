package embeddings

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"

	"github.com/kbozek/lingonotes/internal/constants"
	interrors "github.com/kbozek/lingonotes/internal/errors"
)

// Provider converts text into a fixed-length numeric vector. The
// OpenAI client satisfies this; tests substitute a deterministic fake.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// ToBytes serializes an embedding as little-endian float32 values.
func ToBytes(embedding []float32) []byte {
	buf := new(bytes.Buffer)
	for _, v := range embedding {
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// FromBytes deserializes a little-endian float32 embedding.
func FromBytes(data []byte) ([]float32, error) {
	if len(data)%constants.BytesPerFloat32 != 0 {
		return nil, interrors.ErrInvalidEmbeddingLength
	}

	embedding := make([]float32, len(data)/constants.BytesPerFloat32)
	buf := bytes.NewReader(data)
	for i := range embedding {
		if err := binary.Read(buf, binary.LittleEndian, &embedding[i]); err != nil {
			return nil, err
		}
	}
	return embedding, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched or zero-magnitude vectors score zero.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
