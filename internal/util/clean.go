package util

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const maxBinaryCheckBytes = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Characters spreadsheet exports tend to introduce into catalog files.
var charReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\r\n", "\n",
)

// IsLikelyBinary reports whether content looks like a binary file (NUL byte in the first 512 bytes).
func IsLikelyBinary(content []byte) bool {
	n := len(content)
	if n > maxBinaryCheckBytes {
		n = maxBinaryCheckBytes
	}
	return bytes.IndexByte(content[:n], 0) >= 0
}

// CleanFileContent strips a UTF-8 BOM, replaces invalid UTF-8 and normalizes
// no-break spaces and CRLF line endings.
func CleanFileContent(content []byte, src string) (string, error) {
	if IsLikelyBinary(content) {
		return "", fmt.Errorf("%s looks like a binary file", src)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	if !utf8.Valid(content) {
		log.Warnf("%s has invalid UTF-8, replacing invalid chars", src)
		content = bytes.ToValidUTF8(content, []byte(string(utf8.RuneError)))
	}

	return charReplacer.Replace(string(content)), nil
}
