package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/doveable-ai/doveable-backend/internal/core/auth"
	"github.com/doveable-ai/doveable-backend/internal/core/preview"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
)

type ProjectHandler struct {
	projects repositories.ProjectRepo
}

func NewProjectHandler(projects repositories.ProjectRepo) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjects godoc
// @Summary List the user's projects
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ProjectSummary
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user"})
	}

	summaries, err := h.projects.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch projects"})
	}
	if summaries == nil {
		summaries = []models.ProjectSummary{}
	}

	return c.JSON(summaries)
}

// GetProject godoc
// @Summary Fetch a project with its code and conversation snapshots
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	userID, projectID, err := projectScope(c)
	if err != nil {
		return err
	}

	project, err := h.projects.GetOwned(projectID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	return c.JSON(project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags Projects
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 204
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	userID, projectID, err := projectScope(c)
	if err != nil {
		return err
	}

	if err := h.projects.Delete(projectID, userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PreviewProject godoc
// @Summary Render the project as a standalone HTML document
// @Description Assembles the saved code bundle for display in a sandboxed frame
// @Tags Projects
// @Produce html
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {string} string "text/html"
// @Router /api/projects/{id}/preview [get]
func (h *ProjectHandler) PreviewProject(c *fiber.Ctx) error {
	userID, projectID, err := projectScope(c)
	if err != nil {
		return err
	}

	project, err := h.projects.GetOwned(projectID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	var code models.GeneratedCode
	if len(project.Code) > 0 {
		if err := json.Unmarshal(project.Code, &code); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "corrupt code snapshot"})
		}
	}

	// The document runs generated scripts; lock it down to its frame.
	c.Set("Content-Security-Policy", "sandbox allow-scripts")
	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(preview.BuildDocument(&code))
}

func projectScope(c *fiber.Ctx) (userID, projectID uuid.UUID, err error) {
	userID, err = auth.CurrentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}

	projectID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	return userID, projectID, nil
}
