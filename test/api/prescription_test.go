package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prescriptionResponse struct {
	PrescriptionID int64  `json:"prescription_id"`
	AppointmentID  string `json:"appointment_id"`
	PatientID      int64  `json:"patient_id"`
	DoctorID       int64  `json:"doctor_id"`
	Medication     string `json:"medication"`
	Dosage         string `json:"dosage"`
	Days           int    `json:"days"`
	IssuedAt       string `json:"issued_at"`
}

type listResponse struct {
	Total         int                    `json:"total"`
	Prescriptions []prescriptionResponse `json:"prescriptions"`
}

func TestPrescriptionFlow(t *testing.T) {
	createResp := makeRequest(t, http.MethodPost, "/api/v1/prescriptions/", map[string]interface{}{
		"appointment_id": 10,
		"patient_id":     100,
		"doctor_id":      50,
		"medication":     "Amoxicillin",
		"dosage":         "1-0-1",
		"days":           7,
	}, nil)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created prescriptionResponse
	createResp.JSON(t, &created)
	assert.NotZero(t, created.PrescriptionID)
	assert.Equal(t, "10", created.AppointmentID)
	assert.NotEmpty(t, created.IssuedAt)

	getResp := makeRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/prescriptions/%d", created.PrescriptionID), nil, nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched prescriptionResponse
	getResp.JSON(t, &fetched)
	assert.Equal(t, created, fetched)

	listResp := makeRequest(t, http.MethodGet, "/api/v1/prescriptions/?patient_id=100", nil, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list listResponse
	listResp.JSON(t, &list)
	assert.GreaterOrEqual(t, list.Total, 1)

	found := false
	for _, p := range list.Prescriptions {
		if p.PrescriptionID == created.PrescriptionID {
			found = true
		}
		assert.Equal(t, int64(100), p.PatientID)
	}
	assert.True(t, found, "created prescription missing from patient listing")
}

func TestInvalidCreateLeavesCountUnchanged(t *testing.T) {
	before := makeRequest(t, http.MethodGet, "/api/v1/prescriptions/", nil, nil)
	require.Equal(t, http.StatusOK, before.StatusCode)
	var beforeList listResponse
	before.JSON(t, &beforeList)

	resp := makeRequest(t, http.MethodPost, "/api/v1/prescriptions/", map[string]interface{}{
		"appointment_id": 10,
		"patient_id":     100,
		"doctor_id":      50,
		"medication":     "Amoxicillin",
		"dosage":         "1-0-1",
		"days":           400,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	after := makeRequest(t, http.MethodGet, "/api/v1/prescriptions/", nil, nil)
	require.Equal(t, http.StatusOK, after.StatusCode)
	var afterList listResponse
	after.JSON(t, &afterList)
	assert.Equal(t, beforeList.Total, afterList.Total)
}

func TestFetchNonexistentPrescription(t *testing.T) {
	resp := makeRequest(t, http.MethodGet, "/api/v1/prescriptions/999999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaginationBoundsRejected(t *testing.T) {
	for _, path := range []string{
		"/api/v1/prescriptions/?skip=-1",
		"/api/v1/prescriptions/?limit=0",
		"/api/v1/prescriptions/?limit=501",
	} {
		resp := makeRequest(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "path %s", path)
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	resp := makeRequest(t, http.MethodGet, "/health", nil, map[string]string{
		"X-Correlation-ID": "abc-123",
	})
	assert.Equal(t, "abc-123", resp.Headers.Get("X-Correlation-ID"))

	resp = makeRequest(t, http.MethodGet, "/health", nil, map[string]string{
		"X-Request-ID": "req-9",
	})
	assert.Equal(t, "req-9", resp.Headers.Get("X-Correlation-ID"))

	first := makeRequest(t, http.MethodGet, "/health", nil, nil).Headers.Get("X-Correlation-ID")
	second := makeRequest(t, http.MethodGet, "/health", nil, nil).Headers.Get("X-Correlation-ID")

	_, err := uuid.Parse(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHealthEndpoints(t *testing.T) {
	root := makeRequest(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, root.StatusCode)

	var rootBody map[string]string
	root.JSON(t, &rootBody)
	assert.Equal(t, "running", rootBody["status"])
	assert.NotEmpty(t, rootBody["service"])
	assert.NotEmpty(t, rootBody["version"])

	health := makeRequest(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, health.StatusCode)

	var healthBody map[string]string
	health.JSON(t, &healthBody)
	assert.Equal(t, "healthy", healthBody["status"])
}
