package qr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload wire format: MEMBER-<userId>-<unixMillis>. It carries no signature
// or expiry, so possession of the string is enough to check in with it.
const payloadPrefix = "MEMBER"

var ErrInvalidPayload = errors.New("invalid QR code payload")

type Payload struct {
	UserID    int
	Timestamp int64
}

func EncodePayload(userID int) string {
	return fmt.Sprintf("%s-%d-%d", payloadPrefix, userID, time.Now().UnixMilli())
}

func DecodePayload(data string) (*Payload, error) {
	parts := strings.Split(data, "-")
	if len(parts) < 3 || parts[0] != payloadPrefix {
		return nil, ErrInvalidPayload
	}

	userID, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, ErrInvalidPayload
	}

	timestamp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	return &Payload{UserID: userID, Timestamp: timestamp}, nil
}

// Generator writes member QR codes as PNG files under a fixed directory.
type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// GenerateMemberCode encodes a fresh payload for the user and writes the PNG.
// It returns the payload string and the file path.
func (g *Generator) GenerateMemberCode(memberID, userID int) (string, string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create qr directory: %w", err)
	}

	payload := EncodePayload(userID)
	path := filepath.Join(g.dir, fmt.Sprintf("member-%d.png", memberID))

	if err := qrcode.WriteFile(payload, qrcode.High, 256, path); err != nil {
		return "", "", fmt.Errorf("failed to write qr code: %w", err)
	}

	return payload, path, nil
}
