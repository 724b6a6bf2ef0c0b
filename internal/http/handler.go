package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/seawater/internal/domain"
	"go.ngs.io/seawater/internal/usecase"
)

// Handler handles HTTP requests for seawater computations.
type Handler struct {
	physicsUC *usecase.PhysicsUseCase
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(physicsUC *usecase.PhysicsUseCase, logger *slog.Logger) *Handler {
	return &Handler{
		physicsUC: physicsUC,
		logger:    logger,
	}
}

// queryFloat parses an optional float query parameter.
func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q is not a number", name, raw)
	}
	return &v, nil
}

// requireFloat parses a mandatory float query parameter.
func requireFloat(c *gin.Context, name string) (float64, error) {
	v, err := queryFloat(c, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	return *v, nil
}

// queryFloats parses several optional parameters into the given targets.
func queryFloats(c *gin.Context, targets map[string]**float64) error {
	for name, dst := range targets {
		v, err := queryFloat(c, name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func querySteps(c *gin.Context) (int, error) {
	raw := c.Query("steps")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid steps: %q is not an integer", raw)
	}
	return n, nil
}

// queryProfileRef reads profile= or lat=&lon=.
func queryProfileRef(c *gin.Context) (usecase.ProfileRef, error) {
	ref := usecase.ProfileRef{ID: c.Query("profile")}
	err := queryFloats(c, map[string]**float64{"lat": &ref.Lat, "lon": &ref.Lon})
	return ref, err
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": c.GetString(requestIDKey)})
}

// writeError maps use case errors to HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case usecase.IsInvalidRequest(err):
		status = http.StatusBadRequest
	case domain.IsPrecondition(err):
		status = http.StatusUnprocessableEntity
	case usecase.IsNotFound(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"request_id", c.GetString(requestIDKey),
			"path", c.Request.URL.Path,
			"error", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "request_id": c.GetString(requestIDKey)})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetConstants handles GET /v1/constants.
func (h *Handler) GetConstants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"constants": h.physicsUC.Constants()})
}

// GetProperties handles GET /v1/properties?t=&p=&s=[&lat=][&f=&depth=&ph=].
func (h *Handler) GetProperties(c *gin.Context) {
	var req usecase.PropertiesRequest
	var err error
	if req.Temperature, err = requireFloat(c, "t"); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Pressure, err = requireFloat(c, "p"); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Salinity, err = requireFloat(c, "s"); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := queryFloats(c, map[string]**float64{
		"lat":   &req.Lat,
		"f":     &req.FrequencyKHz,
		"depth": &req.DepthM,
		"ph":    &req.PH,
	}); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.physicsUC.Properties(req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) conversionRequest(c *gin.Context, valueName string) (usecase.ConversionRequest, error) {
	var req usecase.ConversionRequest
	var err error
	if req.Value, err = requireFloat(c, valueName); err != nil {
		return req, err
	}
	err = queryFloats(c, map[string]**float64{
		"p0":  &req.SurfacePressureMbar,
		"rho": &req.Density,
		"g":   &req.Gravity,
		"lat": &req.Lat,
	})
	return req, err
}

// GetConvertDepth handles GET /v1/convert/depth?p=&p0=&rho=&g= (pressure to depth).
func (h *Handler) GetConvertDepth(c *gin.Context) {
	req, err := h.conversionRequest(c, "p")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	resp, err := h.physicsUC.ConvertPressure(req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetConvertPressure handles GET /v1/convert/pressure?h=&p0=&rho=&g= (depth to pressure).
func (h *Handler) GetConvertPressure(c *gin.Context) {
	req, err := h.conversionRequest(c, "h")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	resp, err := h.physicsUC.ConvertDepth(req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListProfiles handles GET /v1/profiles.
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.physicsUC.Profiles()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// GetProfile handles GET /v1/profiles/:id.
func (h *Handler) GetProfile(c *gin.Context) {
	detail, err := h.physicsUC.Profile(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// LocateProfile handles GET /v1/locate?lat=&lon=.
func (h *Handler) LocateProfile(c *gin.Context) {
	lat, err := requireFloat(c, "lat")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	lon, err := requireFloat(c, "lon")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	ref := usecase.ProfileRef{Lat: &lat, Lon: &lon}
	if err := ref.Validate(); err != nil {
		h.writeError(c, err)
		return
	}
	detail, err := h.physicsUC.ProfileAt(lat, lon)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListStations handles GET /v1/stations.
func (h *Handler) ListStations(c *gin.Context) {
	stations := h.physicsUC.Stations()
	if stations == nil {
		stations = []usecase.Station{}
	}
	c.JSON(http.StatusOK, gin.H{
		"stations": stations,
		"count":    len(stations),
	})
}

// GetDepth handles GET /v1/depth?pressure=&profile=|lat=&lon=[&p0=][&g=][&steps=].
func (h *Handler) GetDepth(c *gin.Context) {
	var req usecase.DepthRequest
	var err error
	if req.PressureMbar, err = requireFloat(c, "pressure"); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := queryFloats(c, map[string]**float64{"p0": &req.SurfacePressureMbar, "g": &req.Gravity}); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Steps, err = querySteps(c); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Profile, err = queryProfileRef(c); err != nil {
		h.badRequest(c, err)
		return
	}
	h.depth(c, req)
}

// GetSoundPath handles GET /v1/soundpath?tof=&profile=|lat=&lon=[&g=][&steps=].
func (h *Handler) GetSoundPath(c *gin.Context) {
	var req usecase.SoundPathRequest
	var err error
	if req.TimeOfFlightS, err = requireFloat(c, "tof"); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Gravity, err = queryFloat(c, "g"); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Steps, err = querySteps(c); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Profile, err = queryProfileRef(c); err != nil {
		h.badRequest(c, err)
		return
	}
	h.soundPath(c, req)
}

// integrationBody is the JSON body of POST /v1/depth and /v1/soundpath.
type integrationBody struct {
	Pressure *float64         `json:"pressure"`
	TOF      *float64         `json:"tof"`
	P0       *float64         `json:"p0"`
	G        *float64         `json:"g"`
	Lat      *float64         `json:"lat"`
	Steps    int              `json:"steps"`
	Profile  domain.TSProfile `json:"profile" binding:"required"`
}

// PostDepth handles POST /v1/depth with an inline profile.
func (h *Handler) PostDepth(c *gin.Context) {
	var body integrationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, fmt.Errorf("invalid body: %w", err))
		return
	}
	if body.Pressure == nil {
		h.badRequest(c, fmt.Errorf("pressure is required"))
		return
	}
	h.depth(c, usecase.DepthRequest{
		PressureMbar:        *body.Pressure,
		SurfacePressureMbar: body.P0,
		Gravity:             body.G,
		Steps:               body.Steps,
		Profile:             usecase.ProfileRef{Inline: body.Profile, InlineLat: body.Lat},
	})
}

// PostSoundPath handles POST /v1/soundpath with an inline profile.
func (h *Handler) PostSoundPath(c *gin.Context) {
	var body integrationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, fmt.Errorf("invalid body: %w", err))
		return
	}
	if body.TOF == nil {
		h.badRequest(c, fmt.Errorf("tof is required"))
		return
	}
	h.soundPath(c, usecase.SoundPathRequest{
		TimeOfFlightS: *body.TOF,
		Gravity:       body.G,
		Steps:         body.Steps,
		Profile:       usecase.ProfileRef{Inline: body.Profile, InlineLat: body.Lat},
	})
}

func (h *Handler) depth(c *gin.Context, req usecase.DepthRequest) {
	resp, err := h.physicsUC.DepthByPressure(req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) soundPath(c *gin.Context, req usecase.SoundPathRequest) {
	resp, err := h.physicsUC.SoundPath(req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
