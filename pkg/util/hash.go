package util

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentHash 计算内容哈希，用作笔记版本校验与 ETag
func ContentHash(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:16])
}
