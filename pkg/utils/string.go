package utils

import (
	"math/rand"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Banka yazılımları tarafından bozulmasın diye referans kodlarında
// karıştırılabilen karakterler (0/O, 1/I/L) yer almaz.
const hridCharset = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// Üst seviye rand fonksiyonları kilitli, goroutine'lerden güvenle çağrılır.

func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// GenerateHRID ödeme kayıtlarının insan okunur referans kodunu üretir.
// Ekstre satırındaki mitteilung ile birebir karşılaştırılır.
func GenerateHRID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = hridCharset[rand.Intn(len(hridCharset))]
	}
	return string(b)
}
