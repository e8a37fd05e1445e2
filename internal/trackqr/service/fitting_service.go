package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"gorm.io/datatypes"
)

// FittingService 扣件目录
type FittingService struct {
	repo     *repository.FittingRepository
	activity ActivitySink
}

func NewFittingService(repo *repository.FittingRepository, activity ActivitySink) *FittingService {
	if activity == nil {
		activity = nopSink{}
	}
	return &FittingService{repo: repo, activity: activity}
}

// ListFittings 目录查询
func (s *FittingService) ListFittings(ctx context.Context, limit int, filters map[string]string) ([]entity.Fitting, error) {
	return s.repo.FindAll(ctx, limit, filters)
}

// FittingInput 目录条目输入，外部同步和手工录入共用
type FittingInput struct {
	PartNumber      string                 `json:"part_number"`
	Name            string                 `json:"name"`
	Manufacturer    string                 `json:"manufacturer"`
	Material        string                 `json:"material"`
	WeightKg        FlexNumber             `json:"weight_kg"`
	Dimensions      json.RawMessage        `json:"dimensions"`
	Specifications  map[string]interface{} `json:"specifications"`
	SafetyStandards StringList             `json:"safety_standards"`
}

func (in *FittingInput) toEntity() (*entity.Fitting, error) {
	partNumber := strings.TrimSpace(in.PartNumber)
	if partNumber == "" {
		return nil, missingField("part_number")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, missingField("name")
	}

	f := &entity.Fitting{
		PartNumber:     partNumber,
		Name:           name,
		Manufacturer:   strings.TrimSpace(in.Manufacturer),
		Material:       strings.TrimSpace(in.Material),
		Specifications: datatypes.JSONMap(in.Specifications),
	}

	if in.WeightKg.IsSet() {
		w, err := in.WeightKg.Float()
		if err != nil || w < 0 {
			return nil, invalidField("weight_kg", "weight_kg must be a non-negative number")
		}
		f.WeightKg = &w
	}

	dims, err := parseDimensions(in.Dimensions)
	if err != nil {
		return nil, err
	}
	f.Dimensions = dims

	standards := []string(in.SafetyStandards)
	if standards == nil {
		standards = []string{}
	}
	f.SafetyStandards = datatypes.NewJSONSlice(standards)
	return f, nil
}

// parseDimensions 对象原样保存，字符串包装为 {"text": ...}
func parseDimensions(raw json.RawMessage) (datatypes.JSONMap, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidField("dimensions", "Invalid dimensions")
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, nil
		}
		return datatypes.JSONMap{"text": s}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, invalidField("dimensions", "dimensions must be an object or a string")
	}
	return datatypes.JSONMap(m), nil
}

// UpsertFitting 按零件号插入或更新；与库中数据完全一致时不写库
func (s *FittingService) UpsertFitting(ctx context.Context, in *FittingInput, userID, source string) (*entity.Fitting, error) {
	fitting, err := in.toEntity()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPartNumber(ctx, fitting.PartNumber)
	switch {
	case err == nil:
		if sameFitting(existing, fitting) {
			return existing, nil
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, fitting)
	if err != nil {
		return nil, err
	}

	s.activity.Record(newActivity(entity.ActionFittingSync, nil, userID, map[string]interface{}{
		"source":      source,
		"part_number": saved.PartNumber,
		"fitting_id":  saved.ID,
	}))
	return saved, nil
}

func sameFitting(a, b *entity.Fitting) bool {
	if a.Name != b.Name || a.Manufacturer != b.Manufacturer || a.Material != b.Material {
		return false
	}
	if (a.WeightKg == nil) != (b.WeightKg == nil) {
		return false
	}
	if a.WeightKg != nil && *a.WeightKg != *b.WeightKg {
		return false
	}
	return sameJSON(a.Dimensions, b.Dimensions) &&
		sameJSON(a.Specifications, b.Specifications) &&
		sameJSON(a.SafetyStandards, b.SafetyStandards)
}

// sameJSON 按 JSON 序列化结果比较（map 键有序），nil 与空值视为相同
func sameJSON(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return normalizeEmpty(ja) == normalizeEmpty(jb)
}

func normalizeEmpty(b []byte) string {
	switch s := string(b); s {
	case "null", "{}", "[]":
		return ""
	default:
		return s
	}
}
