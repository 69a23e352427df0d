// Package numbering generates human readable order and invoice numbers.
//
// Numbers embed a UUIDv7, so they sort by creation time and never collide
// between concurrent callers or process restarts.
package numbering

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OrderPrefix   = "DC"
	InvoicePrefix = "INV"
)

func OrderNumber(now time.Time) (string, error) {
	return generate(OrderPrefix, now)
}

func InvoiceNumber(now time.Time) (string, error) {
	return generate(InvoicePrefix, now)
}

func generate(prefix string, now time.Time) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return prefix + "-" + now.UTC().Format("20060102") + "-" + suffix, nil
}
