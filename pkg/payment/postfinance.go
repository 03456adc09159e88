package payment

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// PostfinanceSHA ödeme sağlayıcısının handshake imzasını üretir.
// Parametreler alfabetik sırada, her biri passphrase ile sonlandırılarak
// birleştirilir ve SHA-1 özeti uppercase hex olarak döner.
func PostfinanceSHA(orderID uint, amount int, aliasID string, userID uint) string {
	passphrase := os.Getenv("PF_SHA_IN_SECRET")

	params := []string{
		fmt.Sprintf("ALIAS=%s", aliasID),
		fmt.Sprintf("AMOUNT=%d", amount),
		fmt.Sprintf("ORDERID=%d", orderID),
		fmt.Sprintf("USERID=%d", userID),
	}

	var b strings.Builder
	for _, p := range params {
		b.WriteString(p)
		b.WriteString(passphrase)
	}

	sum := sha1.Sum([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
