package utility

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// GoProtect chạy f và bắt panic (nếu có), trả panic về dạng error
func GoProtect(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	f()
	return nil
}

// NormalizeText chuẩn hóa Unicode NFC rồi trim.
// Tiêu đề tiếng Việt gõ từ macOS thường ở dạng NFD, không chuẩn hóa thì text search không khớp.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
