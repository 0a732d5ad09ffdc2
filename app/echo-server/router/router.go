package router

import (
	"net/http"
	"npsSurvey/internal/rest"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Typeform payloads are a few KB; anything near this is not a form response.
const webhookBodyLimit = "1M"

// SetSurveyRoutes mounts the selector and the Typeform webhook at the paths
// already configured on the survey provider side.
func SetSurveyRoutes(e *echo.Echo, handler *rest.SurveyHandler) {
	e.GET("/send_surveys/", handler.SendSurveys)
	e.Any("/receive_survey_response/", handler.ReceiveSurveyResponse, echomiddleware.BodyLimit(webhookBodyLimit))
}

func SetReportRoutes(api *echo.Group, handler *rest.ReportHandler) {
	surveys := api.Group("/surveys")

	surveys.GET("/invitations", handler.GetCustomerInvitations)
	surveys.GET("/responses/:id", handler.GetSubmission)
	surveys.GET("/questionnaires", handler.GetAllQuestionnaires)
	surveys.GET("/questionnaires/:id", handler.GetQuestionnaireByID)
}

func SetOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
