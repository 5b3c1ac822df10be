package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// EnrollResponse represents the response for a successful enrollment capture
type EnrollResponse struct {
	EmployeeID  int64 `json:"employee_id" example:"1"`
	SampleCount int   `json:"sample_count" example:"7"`
}

// RecognitionData represents the recognition part of a check-in response
type RecognitionData struct {
	EmployeeID   *int64  `json:"employee_id,omitempty" example:"1"`
	Known        bool    `json:"known" example:"true"`
	Score        float64 `json:"score" example:"0.87"`
	Threshold    float64 `json:"threshold" example:"0.62"`
	ModelVersion string  `json:"model_version" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// AttendanceData represents the ledger entry written for a check-in
type AttendanceData struct {
	ID        int64   `json:"id" example:"42"`
	Name      string  `json:"name" example:"Alice"`
	CheckType string  `json:"check_type" example:"IN"`
	Score     float64 `json:"score" example:"0.87"`
	IsUnknown bool    `json:"is_unknown" example:"false"`
}

// CheckinResponse represents the response for a recognition call
type CheckinResponse struct {
	Recognition RecognitionData `json:"recognition"`
	Attendance  *AttendanceData `json:"attendance,omitempty"`
	Message     string          `json:"message,omitempty" example:"already checked IN 10s ago, wait 1m0s between checks"`
}

// TrainingMetricsResponse represents a training run summary
type TrainingMetricsResponse struct {
	Version       string  `json:"version" example:"550e8400-e29b-41d4-a716-446655440000"`
	EmployeeCount int     `json:"employee_count" example:"12"`
	SampleCount   int     `json:"sample_count" example:"144"`
	Components    int     `json:"components" example:"32"`
	Threshold     float64 `json:"threshold" example:"0.62"`
	TrainedAt     string  `json:"trained_at" example:"2026-08-24T10:00:00Z"`
}

// EmployeeResponse represents an employee record
type EmployeeResponse struct {
	ID     int64  `json:"id" example:"1"`
	Code   string `json:"code" example:"EMP001"`
	Name   string `json:"name" example:"Alice"`
	Gender string `json:"gender,omitempty" example:"F"`
	Active bool   `json:"active" example:"true"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Face Attendance API",
		Version:     "v1.0.0",
		Description: "Face-recognition attendance service: enrollment, training and check-in recognition",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/enroll
		endpoint.New(
			endpoint.POST,
			"/enroll",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Enroll a face capture"),
			endpoint.WithDescription("Adds one face capture to an active employee's training pool. Accepts a multipart image file or a base64 JSON image."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data"), mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollResponse{}, "201", "Capture enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "EMPLOYEE_INACTIVE", Message: "Employee is not active"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/recognize
		endpoint.New(
			endpoint.POST,
			"/recognize",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Recognize a face and record attendance"),
			endpoint.WithDescription("Runs the recognition pipeline against the active model. A sub-threshold score returns an unknown result, not an error."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data"), mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CheckinResponse{}, "200", "Recognition completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MODEL_NOT_READY", Message: "No trained model available yet"}, "503", "Service Unavailable"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/retrain
		endpoint.New(
			endpoint.POST,
			"/retrain",
			endpoint.WithTags("Model"),
			endpoint.WithSummary("Train and publish a new model"),
			endpoint.WithDescription("Trains over a snapshot of the enrollment pool. Only one retrain runs at a time; a concurrent call is rejected with 409."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TrainingMetricsResponse{}, "200", "Model trained and published"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RETRAIN_IN_PROGRESS", Message: "A retrain is already running"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INSUFFICIENT_DATA", Message: "At least two employees with enough samples are required"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/model
		endpoint.New(
			endpoint.GET,
			"/model",
			endpoint.WithTags("Model"),
			endpoint.WithSummary("Active model metrics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TrainingMetricsResponse{}, "200", "Active model"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "MODEL_NOT_READY", Message: "No trained model available yet"}, "503", "Service Unavailable"),
			}),
		),

		// GET /v1/attendance
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Attendance history"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("employee_id", parameter.Query, parameter.WithDescription("Filter by employee")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum records (default 100)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]AttendanceData{}, "200", "Attendance records, newest first"),
			}),
		),

		// Employees
		endpoint.New(
			endpoint.POST,
			"/employees",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Create an employee"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{}, "201", "Employee created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_ALREADY_EXISTS", Message: "Employee with this code already exists"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/employees",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("List employees"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]EmployeeResponse{}, "200", "All employees"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/employees/{id}",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Get an employee"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Employee ID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{}, "200", "Employee"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
			}),
		),
		endpoint.New(
			endpoint.PUT,
			"/employees/{id}",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Update an employee"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Employee ID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmployeeResponse{}, "200", "Employee updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
			}),
		),
		endpoint.New(
			endpoint.DELETE,
			"/employees/{id}",
			endpoint.WithTags("Employees"),
			endpoint.WithSummary("Delete an employee and their samples"),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Employee ID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Employee deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found"}, "404", "Not Found"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
