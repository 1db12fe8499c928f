package prescription

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/prescription-api/internal/model"
	"github.com/jwalitptl/prescription-api/internal/service/prescription"
	apperrors "github.com/jwalitptl/prescription-api/pkg/errors"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	prescriptions := rg.Group("/prescriptions")
	{
		prescriptions.POST("/", h.CreatePrescription)
		prescriptions.GET("/", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.GET("/patient/:patient_id", h.ListPatientPrescriptions)
		prescriptions.GET("/doctor/:doctor_id", h.ListDoctorPrescriptions)
		prescriptions.GET("/appointment/:appointment_id/prescriptions", h.ListAppointmentPrescriptions)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreatePrescription(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperrors.BadRequest("invalid prescription ID", err))
		return
	}

	found, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	skip, limit, err := pagination(c)
	if err != nil {
		c.Error(err)
		return
	}

	var filters model.PrescriptionFilters

	if v := c.Query("patient_id"); v != "" {
		patientID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.Error(apperrors.BadRequest("invalid patient ID", err))
			return
		}
		filters.PatientID = &patientID
	}

	if v := c.Query("doctor_id"); v != "" {
		doctorID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.Error(apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		filters.DoctorID = &doctorID
	}

	// Seeded rows may carry non-numeric appointment ids, so the filter
	// accepts any non-empty value.
	if v := c.Query("appointment_id"); v != "" {
		filters.AppointmentID = &v
	}

	prescriptions, total, err := h.service.ListPrescriptions(c.Request.Context(), filters, skip, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.PrescriptionListResponse{
		Total:         total,
		Prescriptions: prescriptions,
	})
}

func (h *Handler) ListPatientPrescriptions(c *gin.Context) {
	patientID, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil {
		c.Error(apperrors.BadRequest("invalid patient ID", err))
		return
	}

	skip, limit, err := pagination(c)
	if err != nil {
		c.Error(err)
		return
	}

	prescriptions, total, err := h.service.ListByPatient(c.Request.Context(), patientID, skip, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.PrescriptionListResponse{
		Total:         total,
		Prescriptions: prescriptions,
	})
}

func (h *Handler) ListDoctorPrescriptions(c *gin.Context) {
	doctorID, err := strconv.ParseInt(c.Param("doctor_id"), 10, 64)
	if err != nil {
		c.Error(apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	skip, limit, err := pagination(c)
	if err != nil {
		c.Error(err)
		return
	}

	prescriptions, total, err := h.service.ListByDoctor(c.Request.Context(), doctorID, skip, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.PrescriptionListResponse{
		Total:         total,
		Prescriptions: prescriptions,
	})
}

// ListAppointmentPrescriptions returns the bare array, not the totalled
// envelope the other listings use.
func (h *Handler) ListAppointmentPrescriptions(c *gin.Context) {
	appointmentID := c.Param("appointment_id")

	prescriptions, _, err := h.service.ListByAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, prescriptions)
}

// pagination parses skip/limit with their defaults. Unparseable values are a
// caller error; range checks live in the service.
func pagination(c *gin.Context) (int, int, error) {
	skip := model.DefaultSkip
	if v := c.Query("skip"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperrors.BadRequest("invalid skip parameter", err)
		}
		skip = parsed
	}

	limit := model.DefaultLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperrors.BadRequest("invalid limit parameter", err)
		}
		limit = parsed
	}

	return skip, limit, nil
}
