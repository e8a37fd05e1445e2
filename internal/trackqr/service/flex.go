package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/shopspring/decimal"
)

// 表单提交的数值可能是数字也可能是字符串

// FlexNumber 接受 4 / "4" / null / ""
type FlexNumber struct {
	raw string
	set bool
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*n = FlexNumber{raw: s, set: s != ""}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	*n = FlexNumber{raw: num.String(), set: true}
	return nil
}

// NewFlexNumber 构造已赋值的数值（测试和内部调用）
func NewFlexNumber(v interface{}) FlexNumber {
	return FlexNumber{raw: fmt.Sprint(v), set: true}
}

func (n FlexNumber) IsSet() bool { return n.set }

func (n FlexNumber) Int() (int, error) {
	return strconv.Atoi(n.raw)
}

// Float 拒绝 NaN 和 Inf，JSON 无法编码它们
func (n FlexNumber) Float() (float64, error) {
	v, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %s", n.raw)
	}
	return v, nil
}

func (n FlexNumber) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(n.raw)
}

// StringList 接受 "a, b" 或 ["a","b"]，去除空白和空项
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}

	var raw []string
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.Split(s, ",")
	} else if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*l = out
	return nil
}

// PartsList 接受 "bolt, clip"、["bolt"] 或 [{"name":"bolt","quantity":2}]；未给数量时为 1
type PartsList []entity.PartUsed

func (l *PartsList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var names StringList
		if err := names.UnmarshalJSON(b); err != nil {
			return err
		}
		*l = partsFromNames(names)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("expected a string or a list of parts: %w", err)
	}

	out := make([]entity.PartUsed, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var name string
			if err := json.Unmarshal(item, &name); err != nil {
				return err
			}
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, entity.PartUsed{Name: name, Quantity: 1})
			}
			continue
		}
		var part entity.PartUsed
		if err := json.Unmarshal(item, &part); err != nil {
			return fmt.Errorf("invalid part: %w", err)
		}
		part.Name = strings.TrimSpace(part.Name)
		if part.Name == "" {
			continue
		}
		if part.Quantity <= 0 {
			part.Quantity = 1
		}
		out = append(out, part)
	}
	*l = out
	return nil
}

func partsFromNames(names []string) []entity.PartUsed {
	out := make([]entity.PartUsed, 0, len(names))
	for _, n := range names {
		out = append(out, entity.PartUsed{Name: n, Quantity: 1})
	}
	return out
}
