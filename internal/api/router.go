package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"taskpilot/internal/api/middleware"
)

// NewRouter assembles the API routes. Everything under /api except the
// auth endpoints requires a bearer token.
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	authMiddleware *middleware.AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateTask)
				r.Get("/", taskHandler.ListTasks)

				// Orchestration endpoints come before /{id} so the
				// static segments never parse as task IDs.
				r.Post("/batch", taskHandler.BatchTasks)
				r.Post("/prioritize", taskHandler.PrioritizeTasks)
				r.Get("/pomodoro", taskHandler.PomodoroSchedule)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.GetTask)
					r.Patch("/", taskHandler.UpdateTask)
					r.Delete("/", taskHandler.DeleteTask)
					r.Patch("/status", taskHandler.ChangeStatus)
					r.Post("/dependencies/infer", taskHandler.InferDependencies)
					r.Delete("/group", taskHandler.RemoveTaskFromGroup)
				})
			})

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", taskHandler.CreateGroup)
				r.Get("/", taskHandler.ListGroups)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.GetGroup)
					r.Patch("/", taskHandler.UpdateGroup)
					r.Delete("/", taskHandler.DeleteGroup)
					r.Post("/tasks", taskHandler.AddTaskToGroup)
				})
			})
		})
	})

	return r
}
