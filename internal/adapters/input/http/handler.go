package http

import (
	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/input"
	"llm-chat-bot/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// DatabasePinger is satisfied by the database driver when a database is in use
type DatabasePinger interface {
	Ping() error
}

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	chat      input.ChatCommand
	callback  input.ConfigCallback
	catalog   input.ModelCatalog
	db        DatabasePinger
	validator validator.Validator
}

// New func - Creates new HTTP handler. db may be nil when chat history is kept in memory.
func New(chat input.ChatCommand, callback input.ConfigCallback, catalog input.ModelCatalog, db DatabasePinger) *HTTPHandler {
	return &HTTPHandler{
		chat:      chat,
		callback:  callback,
		catalog:   catalog,
		db:        db,
		validator: validator.New(),
	}
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports model gateway reachability and, when used, database connectivity
// @Tags HEALTH
// @Produce json
// @Success 200 {object} ResponseBody
// @Failure 503 {object} ResponseBody
// @Router /health [get]
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	status := hdl.catalog.Status(c.UserContext())
	health := HealthResponse{
		Gateway:          status.BaseURL,
		GatewayReachable: status.Reachable,
	}

	healthy := status.Reachable
	if hdl.db != nil {
		health.Database = "up"
		if err := hdl.db.Ping(); err != nil {
			logrus.Errorln(err)
			health.Database = "down"
			healthy = false
		}
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ResponseBody{Status: ServiceUnavailable, Data: health})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: health})
}

// Chat godoc
// @Summary Chat with the LLM
// @Description Answers a prompt within a session. An empty prompt returns the config form as an adaptive card.
// @Tags CHAT
// @Accept application/json
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/chat [post]
// @param Chat body ChatRequest true "Chat"
func (hdl *HTTPHandler) Chat(c *fiber.Ctx) error {
	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(badRequest(err))
	}

	reply, err := hdl.chat.Execute(c.UserContext(), request.Prompt, request.SessionID)
	if err != nil {
		logrus.Errorln(err)
		msg := ResponseBody{
			Status: InternalServerError,
		}
		msg.Status.Message = []string{
			err.Error(),
		}
		return c.Status(fiber.StatusInternalServerError).JSON(msg)
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: newChatResponse(reply)})
}

// SubmitConfig godoc
// @Summary Submit the LLM config form
// @Description Sets the model and/or temperature used for the next prompts. Empty fields keep their value.
// @Tags CHAT
// @Accept application/json
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/chat/config [post]
// @param SubmitConfig body ConfigRequest true "SubmitConfig"
func (hdl *HTTPHandler) SubmitConfig(c *fiber.Ctx) error {
	var request ConfigRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(badRequest(err))
	}

	reply := hdl.callback.Execute(map[string]string{
		domain.FormFieldModel:       request.LLMModel,
		domain.FormFieldTemperature: request.Temperature,
	})

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: newChatResponse(reply)})
}

// ListModels godoc
// @Summary List models
// @Description Lists the models served by the gateway and the current settings
// @Tags MODELS
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/models [get]
func (hdl *HTTPHandler) ListModels(c *fiber.Ctx) error {
	settings := hdl.catalog.Settings()
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ModelsResponse{
		Models:      hdl.catalog.ListModels(c.UserContext()),
		Model:       settings.Model,
		Temperature: settings.Temperature,
	}})
}

// GetModelInfo godoc
// @Summary Model details
// @Description Returns the metadata the gateway (or its self-hosted backend) reports for a model
// @Tags MODELS
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/models/info [get]
// @param name query string true "model name"
func (hdl *HTTPHandler) GetModelInfo(c *fiber.Ctx) error {
	var request ModelInfoRequest
	if err := c.QueryParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(badRequest(err))
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ModelInfoResponse{
		Name: request.Name,
		Info: hdl.catalog.GetModelInfo(c.UserContext(), request.Name),
	}})
}

func badRequest(err error) ResponseBody {
	msg := ResponseBody{
		Status: BadRequest,
	}
	msg.Status.Message = []string{
		err.Error(),
	}
	return msg
}
