package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 32 位十六进制主键（UUID 去横线），与 varchar(32) 主键列对应。
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
