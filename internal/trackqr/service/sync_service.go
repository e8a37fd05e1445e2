package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
)

// 外部系统
const (
	SourceIRCEPT = "IRCEPT_TMS"
	SourceIREPS  = "IREPS"
)

// 外部接口动作
const (
	ActionGetTrackStatus            = "get_track_status"
	ActionUpdateMaintenanceSchedule = "update_maintenance_schedule"
	ActionSyncTrackFittings         = "sync_track_fittings"
	ActionGetQRStatus               = "get_qr_status"
)

// ExternalRequest 外部系统请求体 {action, data}
type ExternalRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// payload 校验并解析 data，必须为非空对象
func (r *ExternalRequest) payload() (map[string]interface{}, error) {
	if strings.TrimSpace(r.Action) == "" {
		return nil, missingField("action")
	}
	raw := bytes.TrimSpace(r.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, missingField("data")
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, invalidField("data", "data must be an object")
	}
	return data, nil
}

// ExternalResult 外部接口响应，Count 仅列表类动作返回
type ExternalResult struct {
	Data    interface{}
	Message string
	Count   *int
}

// SyncService 外部系统适配（IRCEPT/TMS、IREPS）
type SyncService struct {
	qrRepo   *repository.QRCodeRepository
	fittings *FittingService
	activity ActivitySink
	events   EventPublisher
}

func NewSyncService(qrRepo *repository.QRCodeRepository, fittings *FittingService, activity ActivitySink) *SyncService {
	if activity == nil {
		activity = nopSink{}
	}
	return &SyncService{qrRepo: qrRepo, fittings: fittings, activity: activity, events: nopPublisher{}}
}

// SetEventPublisher 注入实时事件
func (s *SyncService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// HandleIRCEPT 线路管理系统：查询线路状态、回写维修计划
func (s *SyncService) HandleIRCEPT(ctx context.Context, req *ExternalRequest) (*ExternalResult, error) {
	data, err := req.payload()
	if err != nil {
		return nil, err
	}
	switch req.Action {
	case ActionGetTrackStatus:
		return s.trackStatus(ctx, data)
	case ActionUpdateMaintenanceSchedule:
		return s.updateMaintenanceSchedule(ctx, data)
	default:
		return nil, invalidField("action", "Invalid action")
	}
}

// HandleIREPS 采购系统：同步扣件目录、查询二维码状态
func (s *SyncService) HandleIREPS(ctx context.Context, req *ExternalRequest) (*ExternalResult, error) {
	data, err := req.payload()
	if err != nil {
		return nil, err
	}
	switch req.Action {
	case ActionSyncTrackFittings:
		return s.syncTrackFitting(ctx, req.Data)
	case ActionGetQRStatus:
		return s.qrStatus(ctx, data)
	default:
		return nil, invalidField("action", "Invalid action")
	}
}

// TrackLocation 线路位置
type TrackLocation struct {
	Zone        string `json:"zone"`
	Division    string `json:"division"`
	Section     string `json:"section"`
	KmPost      string `json:"km_post"`
	TrackNumber string `json:"track_number,omitempty"`
}

// TrackFittingInfo 扣件概要
type TrackFittingInfo struct {
	Name           string                 `json:"name"`
	PartNumber     string                 `json:"part_number"`
	Manufacturer   string                 `json:"manufacturer,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
}

// TrackCondition 最近一次检验结论，无检验时各字段为空
type TrackCondition struct {
	Rating         *int       `json:"rating"`
	LastInspection *time.Time `json:"last_inspection"`
	Defects        []string   `json:"defects"`
}

// TrackStatus get_track_status 单条结果
type TrackStatus struct {
	QRCode    string           `json:"qr_code"`
	Location  TrackLocation    `json:"location"`
	Fitting   TrackFittingInfo `json:"fitting"`
	Status    string           `json:"status"`
	Condition TrackCondition   `json:"condition"`
}

func (s *SyncService) trackStatus(ctx context.Context, data map[string]interface{}) (*ExternalResult, error) {
	filters := make(map[string]string)
	for _, key := range []string{"zone", "division", "section", "km_from", "km_to"} {
		if v := stringValue(data[key]); v != "" {
			filters[key] = v
		}
	}
	for _, key := range []string{"km_from", "km_to"} {
		if v, ok := filters[key]; ok {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return nil, invalidField(key, "%s must be a number", key)
			}
		}
	}

	items, err := s.qrRepo.FindTrackStatus(ctx, filters)
	if err != nil {
		return nil, err
	}

	out := make([]TrackStatus, 0, len(items))
	for _, item := range items {
		qr := item.QRCode
		ts := TrackStatus{
			QRCode: qr.Code,
			Location: TrackLocation{
				Zone:        qr.Zone,
				Division:    qr.Division,
				Section:     qr.Section,
				KmPost:      qr.KmPost,
				TrackNumber: qr.TrackNumber,
			},
			Status:    qr.Status,
			Condition: TrackCondition{Defects: []string{}},
		}
		if qr.Fitting != nil {
			ts.Fitting = TrackFittingInfo{
				Name:           qr.Fitting.Name,
				PartNumber:     qr.Fitting.PartNumber,
				Manufacturer:   qr.Fitting.Manufacturer,
				Specifications: qr.Fitting.Specifications,
			}
		}
		if insp := item.LastInspection; insp != nil {
			rating := insp.ConditionRating
			date := insp.InspectionDate
			ts.Condition.Rating = &rating
			ts.Condition.LastInspection = &date
			if len(insp.DefectsFound) > 0 {
				ts.Condition.Defects = []string(insp.DefectsFound)
			}
		}
		out = append(out, ts)
	}

	count := len(out)
	return &ExternalResult{Data: out, Count: &count}, nil
}

func (s *SyncService) updateMaintenanceSchedule(ctx context.Context, data map[string]interface{}) (*ExternalResult, error) {
	code := stringValue(data["qr_code"])
	if code == "" {
		return nil, missingField("qr_code")
	}
	status := stringValue(data["status"])
	if status == "" {
		return nil, missingField("status")
	}
	if !entity.ValidQRStatus(status) {
		return nil, invalidField("status", "Invalid status: %s", status)
	}

	qr, err := s.qrRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, "QR code not found")
	}

	previous := qr.Status
	if err := s.qrRepo.UpdateFields(ctx, qr.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, notFound(err, "QR code not found")
	}
	if qr, err = s.qrRepo.FindByCode(ctx, code); err != nil {
		return nil, notFound(err, "QR code not found")
	}

	s.activity.Record(newActivity(entity.ActionTMSUpdate, &qr.ID, "", map[string]interface{}{
		"source":        SourceIRCEPT,
		"schedule_data": data,
		"from_status":   previous,
		"updated_at":    qr.UpdatedAt.Format(time.RFC3339),
	}))
	s.events.Publish("tms_update", map[string]interface{}{
		"qr_code": qr.Code,
		"status":  qr.Status,
	})

	return &ExternalResult{Data: qr, Message: "Maintenance schedule updated successfully"}, nil
}

func (s *SyncService) syncTrackFitting(ctx context.Context, raw json.RawMessage) (*ExternalResult, error) {
	var in FittingInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, invalidField("data", "Invalid fitting data: %s", err.Error())
	}
	fitting, err := s.fittings.UpsertFitting(ctx, &in, "", SourceIREPS)
	if err != nil {
		return nil, err
	}
	return &ExternalResult{Data: fitting, Message: "Track fitting synced successfully"}, nil
}

// QRStatus get_qr_status 结果
type QRStatus struct {
	QRCode       string           `json:"qr_code"`
	Status       string           `json:"status"`
	Location     TrackLocation    `json:"location"`
	TrackFitting TrackFittingInfo `json:"track_fitting"`
	LastUpdated  time.Time        `json:"last_updated"`
}

func (s *SyncService) qrStatus(ctx context.Context, data map[string]interface{}) (*ExternalResult, error) {
	code := stringValue(data["qr_code"])
	if code == "" {
		return nil, missingField("qr_code")
	}

	qr, err := s.qrRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, "QR code not found")
	}

	out := QRStatus{
		QRCode: qr.Code,
		Status: qr.Status,
		Location: TrackLocation{
			Zone:     qr.Zone,
			Division: qr.Division,
			Section:  qr.Section,
			KmPost:   qr.KmPost,
		},
		LastUpdated: qr.UpdatedAt,
	}
	if qr.Fitting != nil {
		out.TrackFitting = TrackFittingInfo{
			Name:         qr.Fitting.Name,
			PartNumber:   qr.Fitting.PartNumber,
			Manufacturer: qr.Fitting.Manufacturer,
		}
	}
	return &ExternalResult{Data: out}, nil
}

// stringValue JSON 标量转字符串，数字按最短形式输出
func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
