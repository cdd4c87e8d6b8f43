package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"spdocs/internal/service"
)

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay thin; every decision beyond status-code mapping lives in
// the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	docs := app.Group("/documents")
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", CreateDocument(docSvc))
	// Static segments before :id so "by-type"/"by-user" never parse as ids.
	docs.Get("/by-type/:documentType", DocumentsByType(docSvc))
	docs.Get("/by-user/:userName", DocumentsByUser(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Put("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Patch("/:id/status", UpdateDocumentStatus(docSvc))
	docs.Post("/:id/file", UploadDocumentFile(docSvc))
	docs.Get("/:id/file", DocumentFileURL(docSvc))

	lessons := app.Group("/lessons")
	lessons.Get("/GetLessonID", GetLessonID(docSvc))
}
