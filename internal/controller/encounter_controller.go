package controller

import (
	"errors"
	"strconv"
	"time"

	"machinaka-be/internal/dto"
	"machinaka-be/internal/pkg/serverutils"
	"machinaka-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEncounterController interface {
	RegisterRoutes(r fiber.Router)
	ReportLocation(ctx *fiber.Ctx) error
	ReportProximity(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ConfirmMatch(ctx *fiber.Ctx) error
	ActiveUsers(ctx *fiber.Ctx) error
}

type encounterController struct {
	encounterService service.IEncounterService
}

func NewEncounterController(encounterService service.IEncounterService) IEncounterController {
	return &encounterController{
		encounterService: encounterService,
	}
}

func (c *encounterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/encounters")
	h.Post("/location", c.ReportLocation)
	h.Post("/proximity", c.ReportProximity)
	h.Get("/history/:userId", c.History)
	h.Post("/match", c.ConfirmMatch)
	h.Get("/active-users", c.ActiveUsers)
}

func (c *encounterController) ReportLocation(ctx *fiber.Ctx) error {
	var req dto.ReportLocationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.encounterService.ReportLocation(ctx.Context(), req.UserID, req.Location.ToModel())
	if err != nil {
		return mapEncounterError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Location updated", dto.ReportLocationResponse{
		Success: true,
		Message: "location updated",
	}))
}

func (c *encounterController) ReportProximity(ctx *fiber.Ctx) error {
	var req dto.ReportProximityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	encounters, nearbyCount, err := c.encounterService.ReportProximity(
		ctx.Context(),
		req.UserID,
		req.DeviceID,
		req.Location.ToModel(),
		req.SignalStrength,
	)
	if err != nil {
		return mapEncounterError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Proximity processed", dto.ReportProximityResponse{
		Success:     true,
		Encounters:  encounters,
		NearbyCount: nearbyCount,
	}))
}

func (c *encounterController) History(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userId is required")
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	encounters, total, err := c.encounterService.History(ctx.Context(), userID, limit, offset)
	if err != nil {
		return mapEncounterError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Encounter history", dto.HistoryResponse{
		Encounters: encounters,
		Total:      total,
	}))
}

func (c *encounterController) ConfirmMatch(ctx *fiber.Ctx) error {
	var req dto.ConfirmMatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	encounterID, err := uuid.Parse(req.EncounterID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "encounter_id must be a valid uuid")
	}

	encounter, err := c.encounterService.ConfirmMatch(ctx.Context(), encounterID, req.UserID)
	if err != nil {
		return mapEncounterError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Match confirmed", dto.ConfirmMatchResponse{
		Success:   true,
		Message:   "match confirmed",
		Encounter: encounter,
	}))
}

func (c *encounterController) ActiveUsers(ctx *fiber.Ctx) error {
	count, err := c.encounterService.ActiveUsers(ctx.Context())
	if err != nil {
		return mapEncounterError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Active users", dto.ActiveUsersResponse{
		ActiveUsers: count,
	}))
}

func mapEncounterError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEncounterNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotParticipant):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return err
	}
}

// HealthHandler answers the liveness probe.
func HealthHandler(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}
