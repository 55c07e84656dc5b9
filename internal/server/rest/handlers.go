package rest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/indicasta/customerd/internal/common"
	"github.com/indicasta/customerd/internal/server/auth"
	"github.com/indicasta/customerd/internal/server/customers"
)

func customerID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("customerId"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid customer id %q", common.ErrValidation, c.Params("customerId"))
	}
	return id, nil
}

func (s *Server) register(c fiber.Ctx) error {
	var reg customers.Registration
	if err := c.Bind().Body(&reg); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", common.ErrValidation))
	}

	resp, err := s.auth.Register(c.Context(), reg)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(resp)
}

func (s *Server) login(c fiber.Ctx) error {
	var creds auth.Credentials
	if err := c.Bind().Body(&creds); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", common.ErrValidation))
	}

	resp, err := s.auth.Authenticate(c.Context(), creds)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (s *Server) listCustomers(c fiber.Ctx) error {
	views, err := s.customers.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(views)
}

func (s *Server) getCustomer(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.customers.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (s *Server) updateCustomer(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var patch customers.UpdateRequest
	if err := c.Bind().Body(&patch); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", common.ErrValidation))
	}

	if err := s.customers.Update(c.Context(), id, patch); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}

func (s *Server) deleteCustomer(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.customers.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}

func (s *Server) uploadProfileImage(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return respondError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fmt.Errorf("%w: missing file part", common.ErrValidation))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("%w: unreadable file part", common.ErrValidation))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, fmt.Errorf("error reading upload: %w", err))
	}

	if err := s.customers.UploadProfilePic(c.Context(), id, content); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusOK)
}

func (s *Server) downloadProfileImage(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return respondError(c, err)
	}

	content, err := s.customers.DownloadProfilePic(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, http.DetectContentType(content))
	return c.Send(content)
}
