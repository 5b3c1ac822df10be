//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Phucht59/Face-detect/internal/database"
	"github.com/Phucht59/Face-detect/internal/domain"
	"github.com/Phucht59/Face-detect/internal/encoder"
	"github.com/Phucht59/Face-detect/internal/enrollment"
	providermock "github.com/Phucht59/Face-detect/internal/provider/mock"
	"github.com/Phucht59/Face-detect/internal/registry"
	"github.com/Phucht59/Face-detect/internal/repository"
	"github.com/Phucht59/Face-detect/internal/service"
	"github.com/Phucht59/Face-detect/internal/trainer"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "attendance_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}()

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/attendance_test?sslmode=disable", host, port.Port())

	migrationDB, err := database.OpenForMigration(connStr)
	if err != nil {
		fmt.Printf("Failed to open migration connection: %v\n", err)
		os.Exit(1)
	}
	migrator, err := database.NewMigrator(migrationDB, "attendance_test")
	if err != nil {
		fmt.Printf("Failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		os.Exit(1)
	}
	_ = migrator.Close()

	testDB, err = pgxpool.New(ctx, connStr)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer testDB.Close()

	os.Exit(m.Run())
}

const testFaceSize = 32

// facePNG renders a deterministic synthetic portrait: employee 1 gets a
// horizontal ramp, employee 2 a vertical one, with a per-capture brightness
// shift standing in for pose variation.
func facePNG(employee, variation int) []byte {
	img := image.NewGray(image.Rect(0, 0, 96, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			var v int
			if employee == 1 {
				v = x*2 + variation*3
			} else {
				v = y*2 + variation*3
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v % 256)})
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func newStack(t *testing.T) *Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	for _, table := range []string{"attendance_log", "face_samples", "model_artifacts", "employees"} {
		if _, err := testDB.Exec(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	employeeRepo := repository.NewEmployeeRepository(testDB)
	sampleRepo := repository.NewSampleRepository(testDB)
	artifactRepo := repository.NewArtifactRepository(testDB)
	attendanceRepo := repository.NewAttendanceRepository(testDB)

	store := enrollment.NewStore()
	reg := registry.New(artifactRepo, logger)
	enc := encoder.New(providermock.New(), testFaceSize)
	tr := trainer.New(trainer.Config{
		Components:            8,
		MinSamplesPerEmployee: 5,
		MinThreshold:          0.5,
	}, logger)

	attendanceSvc := service.NewAttendanceService(
		enc, store, tr, reg,
		employeeRepo, sampleRepo, attendanceRepo, nil,
		time.Hour, logger,
	)
	employeeSvc := service.NewEmployeeService(employeeRepo, sampleRepo, store, logger)

	router := NewRouter(logger, &Dependencies{
		Attendance: attendanceSvc,
		Employees:  employeeSvc,
		DB:         testDB,
	})
	router.Setup()
	return router
}

func postJSON(t *testing.T, router *Router, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	payload, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, payload
}

func postImage(t *testing.T, router *Router, path string, employeeID string, img []byte) (int, []byte) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if employeeID != "" {
		_ = writer.WriteField("employee_id", employeeID)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="face.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(h)
	_, _ = part.Write(img)
	_ = writer.Close()

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	payload, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, payload
}

func TestIntegration_HealthAndReady(t *testing.T) {
	router := newStack(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := router.App().Test(httptest.NewRequest("GET", path, nil), -1)
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestIntegration_EnrollTrainRecognize(t *testing.T) {
	router := newStack(t)

	// Directory
	var created [2]domain.Employee
	for i, body := range []string{
		`{"code":"EMP001","name":"Alice"}`,
		`{"code":"EMP002","name":"Bob"}`,
	} {
		status, payload := postJSON(t, router, "/v1/employees", body)
		if status != 201 {
			t.Fatalf("create employee: status %d: %s", status, payload)
		}
		if err := json.Unmarshal(payload, &created[i]); err != nil {
			t.Fatalf("decode employee: %v", err)
		}
	}

	// Recognition before any training is a 503, not a crash.
	status, payload := postImage(t, router, "/v1/recognize", "", facePNG(1, 0))
	if status != 503 {
		t.Fatalf("recognize before training: status %d: %s", status, payload)
	}

	// Enrollment: ten captures per employee.
	for i := 0; i < 10; i++ {
		for e := 1; e <= 2; e++ {
			status, payload := postImage(t, router, "/v1/enroll",
				fmt.Sprintf("%d", created[e-1].ID), facePNG(e, i))
			if status != 201 {
				t.Fatalf("enroll: status %d: %s", status, payload)
			}
		}
	}

	// Train and publish.
	status, payload = postJSON(t, router, "/v1/retrain", "")
	if status != 200 {
		t.Fatalf("retrain: status %d: %s", status, payload)
	}
	var metrics domain.TrainingMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metrics.EmployeeCount != 2 || metrics.SampleCount != 20 {
		t.Errorf("metrics = %d employees / %d samples, want 2/20", metrics.EmployeeCount, metrics.SampleCount)
	}

	// A capture of Alice comes back as Alice and writes an IN record.
	status, payload = postImage(t, router, "/v1/recognize", "", facePNG(1, 4))
	if status != 200 {
		t.Fatalf("recognize: status %d: %s", status, payload)
	}
	var checkin service.CheckinResult
	if err := json.Unmarshal(payload, &checkin); err != nil {
		t.Fatalf("decode checkin: %v", err)
	}
	if !checkin.Recognition.Known {
		t.Fatalf("recognition unknown, score %f threshold %f",
			checkin.Recognition.Score, checkin.Recognition.Threshold)
	}
	if *checkin.Recognition.EmployeeID != created[0].ID {
		t.Errorf("recognized employee %d, want %d", *checkin.Recognition.EmployeeID, created[0].ID)
	}
	if checkin.Attendance == nil || checkin.Attendance.CheckType != domain.CheckTypeIn {
		t.Errorf("attendance = %+v, want IN record", checkin.Attendance)
	}

	// An immediate second check is recognized but not recorded (minimum gap).
	status, payload = postImage(t, router, "/v1/recognize", "", facePNG(1, 5))
	if status != 200 {
		t.Fatalf("second recognize: status %d: %s", status, payload)
	}
	if err := json.Unmarshal(payload, &checkin); err != nil {
		t.Fatalf("decode second checkin: %v", err)
	}
	if checkin.Attendance != nil || checkin.Message == "" {
		t.Errorf("second check = %+v, want skipped with message", checkin)
	}

	// Model and history endpoints see the published state.
	resp, err := router.App().Test(httptest.NewRequest("GET", "/v1/model", nil), -1)
	if err != nil || resp.StatusCode != 200 {
		t.Errorf("model endpoint: %v status %d", err, resp.StatusCode)
	}

	resp, err = router.App().Test(httptest.NewRequest("GET", "/v1/attendance", nil), -1)
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("attendance endpoint: %v status %d", err, resp.StatusCode)
	}
	var records []domain.AttendanceRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("attendance records = %d, want 1", len(records))
	}
}

func TestIntegration_ArtifactSurvivesRestart(t *testing.T) {
	router := newStack(t)

	for i, body := range []string{
		`{"code":"EMP101","name":"Carol"}`,
		`{"code":"EMP102","name":"Dave"}`,
	} {
		status, payload := postJSON(t, router, "/v1/employees", body)
		if status != 201 {
			t.Fatalf("create employee %d: status %d: %s", i, status, payload)
		}
	}

	var employees []domain.Employee
	resp, _ := router.App().Test(httptest.NewRequest("GET", "/v1/employees", nil), -1)
	_ = json.NewDecoder(resp.Body).Decode(&employees)

	for i := 0; i < 6; i++ {
		for e := 1; e <= 2; e++ {
			postImage(t, router, "/v1/enroll", fmt.Sprintf("%d", employees[e-1].ID), facePNG(e, i))
		}
	}

	if status, payload := postJSON(t, router, "/v1/retrain", ""); status != 200 {
		t.Fatalf("retrain: status %d: %s", status, payload)
	}

	// A fresh registry over the same database restores the artifact.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(repository.NewArtifactRepository(testDB), logger)
	if err := reg.Load(context.Background()); err != nil {
		t.Fatalf("registry load: %v", err)
	}
	artifact, err := reg.Active()
	if err != nil {
		t.Fatalf("active after reload: %v", err)
	}
	if artifact.Dimension != testFaceSize*testFaceSize {
		t.Errorf("restored dimension = %d, want %d", artifact.Dimension, testFaceSize*testFaceSize)
	}
}
