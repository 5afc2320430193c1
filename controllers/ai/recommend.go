package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"clinic-booking/logger"
	catalogModel "clinic-booking/models/catalog"
	"clinic-booking/types"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// AIController recommends a service area from free-text symptoms.
type AIController struct {
	DB *gorm.DB
}

func NewAIController(db *gorm.DB) *AIController {
	return &AIController{DB: db}
}

type recommendRequest struct {
	Sintomas string `json:"sintomas"`
}

type recommendation struct {
	Area      string `json:"area"`
	Confianza string `json:"confianza"`
	Motivo    string `json:"motivo"`
}

// RecomendarArea asks Gemini to map the symptoms onto one of the active
// areas. The model is pinned to the catalog so it cannot invent areas.
func (ac *AIController) RecomendarArea(c *fiber.Ctx) error {
	var req recommendRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Sintomas) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "sintomas is required",
			Status:  fiber.StatusBadRequest,
		})
	}

	var areas []catalogModel.Area
	if err := ac.DB.Where("activo = ?", true).Find(&areas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	if len(areas) == 0 {
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Message: "No hay áreas configuradas",
			Status:  fiber.StatusConflict,
		})
	}
	names := make([]string, len(areas))
	for i, area := range areas {
		names[i] = area.Nombre
	}

	result, err := recommendWithGemini(req.Sintomas, names)
	if err != nil {
		logger.Error("Gemini recommendation failed", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Message: "El servicio de recomendación no está disponible",
			Status:  fiber.StatusServiceUnavailable,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Área recomendada",
		Status:  fiber.StatusOK,
		Data:    result,
	})
}

func recommendWithGemini(sintomas string, areas []string) (*recommendation, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := fmt.Sprintf(`Eres un asistente de triaje de un centro de salud.
Según los síntomas del paciente, elige el área de atención más adecuada.
Responde SOLO con JSON válido, sin texto adicional.

Áreas disponibles (elige exactamente una de esta lista):
%s

Síntomas del paciente:
%s

Formato JSON requerido:
{
"area": string,       // una de las áreas listadas, copiada textualmente
"confianza": string,  // "alta", "media" o "baja"
"motivo": string      // una frase corta en español
}`, strings.Join(areas, ", "), sintomas)

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendation: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}
	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var parsed recommendation
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	// The model must stay inside the catalog.
	valid := false
	for _, name := range areas {
		if strings.EqualFold(parsed.Area, name) {
			parsed.Area = name
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("model returned unknown area: %s", parsed.Area)
	}

	return &parsed, nil
}

// extractJSONFromMarkdown strips markdown code fences from a model reply.
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
