package controller

import (
	"errors"
	"strconv"

	"machinaka-be/internal/dto"
	"machinaka-be/internal/pkg/serverutils"
	"machinaka-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type userController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) IUserController {
	return &userController{
		userService: userService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Post("/register", c.Register)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
}

func (c *userController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	user, err := c.userService.Register(ctx.Context(), req)
	if err != nil {
		return mapUserError(err)
	}

	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("User registered", dto.UserResponse{
			Success: true,
			User:    user,
		}))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	user, err := c.userService.GetByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return mapUserError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("User detail", dto.UserResponse{
		Success: true,
		User:    user,
	}))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	user, err := c.userService.Update(ctx.Context(), ctx.Params("id"), req)
	if err != nil {
		return mapUserError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("User updated", dto.UserResponse{
		Success: true,
		User:    user,
	}))
}

func (c *userController) List(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "100"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	users, total, err := c.userService.List(ctx.Context(), limit, offset)
	if err != nil {
		return mapUserError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("User list", dto.UserListResponse{
		Users: users,
		Total: total,
	}))
}

func mapUserError(err error) error {
	if errors.Is(err, service.ErrUserNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
