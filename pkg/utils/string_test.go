package utils

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(12)
	assert.Len(t, s, 12)

	for _, r := range s {
		assert.Contains(t, charset, string(r))
	}
}

func TestGenerateHRID(t *testing.T) {
	hrid := GenerateHRID(6)
	assert.Len(t, hrid, 6)

	// Karıştırılabilen karakterler asla üretilmez
	for _, forbidden := range []string{"0", "O", "1", "I", "L"} {
		assert.False(t, strings.Contains(hrid, forbidden), "HRID should not contain %s", forbidden)
	}
	for _, r := range hrid {
		assert.Contains(t, hridCharset, string(r))
	}
}

// Kod üretimi goroutine'lerden çağrılır (ör. eşzamanlı pay-pledge istekleri),
// -race altında da temiz kalmalı.
func TestGenerateHRIDConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GenerateHRID(6)
		}(i)
	}
	wg.Wait()

	for _, hrid := range results {
		assert.Len(t, hrid, 6)
	}
}
