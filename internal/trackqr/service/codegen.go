package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// CodePrefix 二维码前缀
const CodePrefix = "IR"

// CodeGenerator 生成 IR + 13位毫秒时间戳 + 3位随机数 的二维码
type CodeGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	rand func() int
}

// NewCodeGenerator 使用系统时钟和随机源
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		now:  time.Now,
		rand: func() int { return rand.Intn(1000) },
	}
}

// NewCodeGeneratorWith 注入时钟和随机源（测试用）
func NewCodeGeneratorWith(now func() time.Time, rnd func() int) *CodeGenerator {
	return &CodeGenerator{now: now, rand: rnd}
}

// Generate 返回一个候选码，唯一性由数据库唯一约束保证
func (g *CodeGenerator) Generate() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	suffix := g.rand() % 1000
	g.mu.Unlock()

	if suffix < 0 {
		suffix = -suffix
	}
	return fmt.Sprintf("%s%013d%03d", CodePrefix, ms, suffix)
}
