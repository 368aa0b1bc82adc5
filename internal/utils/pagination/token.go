package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when the caller does not ask for one.
const DefaultLimit = 20

// EncodeMultiFieldToken creates a token with any number of string fields
// This provides flexibility for different pagination strategies
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// EncodeEntryNumberToken creates a cursor that resumes listing below entryNumber.
func EncodeEntryNumberToken(entryNumber int64) string {
	return EncodeMultiFieldToken("en", strconv.FormatInt(entryNumber, 10))
}

// DecodeEntryNumberToken parses a cursor created by EncodeEntryNumberToken.
func DecodeEntryNumberToken(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != "en" {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	n, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pagination token format (entry number)")
	}
	return n, nil
}
