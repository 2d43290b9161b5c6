package api

import (
	"time"

	"github.com/five82/maitre/internal/queue"
)

// CreateRequest is the POST /api/customers body.
type CreateRequest struct {
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone"`
	PartySize    int        `json:"party_size"`
	QueueType    queue.Type `json:"queue_type"`
}

// NewCreateRequest converts validated form input to the wire body.
func NewCreateRequest(in queue.AddInput) CreateRequest {
	in = in.Normalize()
	return CreateRequest{
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		PartySize:    in.PartySize,
		QueueType:    in.Type,
	}
}

// CreateResponse mirrors the create endpoint's reply.
type CreateResponse struct {
	Success     bool        `json:"success"`
	CustomerID  int64       `json:"customer_id"`
	QueueNumber string      `json:"queue_number"`
	Prediction  *Prediction `json:"prediction"`
	Error       string      `json:"error"`
}

// Prediction is a wait estimate from the server, either model-backed or its
// own fallback calculation.
type Prediction struct {
	EstimatedWait  int      `json:"estimated_wait"`
	Confidence     int      `json:"confidence"`
	Factors        []string `json:"factors"`
	Recommendation string   `json:"recommendation"`
	AIPowered      bool     `json:"ai_powered"`
}

// Insights mirrors /api/queue-insights.
type Insights struct {
	EfficiencyScore    int      `json:"efficiency_score"`
	AvgWaitTime        int      `json:"avg_wait_time"`
	Bottlenecks        []string `json:"bottlenecks"`
	Suggestions        []string `json:"suggestions"`
	PeakHourPrediction string   `json:"peak_hour_prediction"`
}

// QRCode mirrors /api/customer/{id}/qr. QRCode is a PNG data URL.
type QRCode struct {
	QueueNumber string `json:"queue_number"`
	QRCode      string `json:"qr_code"`
	StatusURL   string `json:"status_url"`
}

// Analytics mirrors /api/analytics.
type Analytics struct {
	TodayCustomers  int     `json:"today_customers"`
	AverageWaitTime float64 `json:"average_wait_time"`
	PeakHour        string  `json:"peak_hour"`
	QueueEfficiency int     `json:"queue_efficiency"`
	HourlyData      []int   `json:"hourly_data"`
	WaitTimeData    []int   `json:"wait_time_data"`
}

// QueueStats mirrors /api/queue/stats.
type QueueStats struct {
	Total       int     `json:"total"`
	Waiting     int     `json:"waiting"`
	Seated      int     `json:"seated"`
	Done        int     `json:"done"`
	AvgWaitTime float64 `json:"avg_wait_time"`
	TodayTotal  int     `json:"today_total"`
}

// CustomerStatus mirrors /api/customer/status/{queue_number}.
type CustomerStatus struct {
	QueueNumber   string       `json:"queueNumber"`
	CustomerName  string       `json:"customerName"`
	PartySize     int          `json:"partySize"`
	QueueType     queue.Type   `json:"queueType"`
	Status        queue.Status `json:"status"`
	EstimatedWait int          `json:"estimatedWait"`
	Position      int          `json:"position"`
	Timestamp     string       `json:"timestamp"`
}

// ParsedTimestamp returns Timestamp as a time.Time when it parses.
func (s CustomerStatus) ParsedTimestamp() time.Time {
	return queue.ParseTimestamp(s.Timestamp)
}

type statusRequest struct {
	CustomerID int64        `json:"customer_id"`
	Status     queue.Status `json:"status"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type predictRequest struct {
	QueueData    []queue.Entry `json:"queue_data"`
	CustomerData CreateRequest `json:"customer_data"`
}

type insightsRequest struct {
	QueueData []queue.Entry `json:"queue_data"`
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type smsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
