package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/taskboard/taskboard/internal/api/response"
	"github.com/taskboard/taskboard/internal/perrors"
	"github.com/taskboard/taskboard/internal/services"
	"github.com/taskboard/taskboard/internal/services/task"
)

func RegisterTaskRoutes(r *router.Router, svc *services.Services) {
	// List tasks: everything for admins, own tasks otherwise.
	r.GET("/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actor, ok := requestActor(ctx)
		if !ok {
			response.Message(ctx, fasthttp.StatusForbidden, "not authorized")
			return
		}

		tasks, err := svc.Task.List(stdCtx, actor)
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError("Error fetching tasks.", err))
			return
		}

		if tasks == nil {
			tasks = []*task.Task{}
		}
		response.JSON(ctx, fasthttp.StatusOK, tasks)
	})

	// Create a task owned by the actor.
	r.POST("/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actor, ok := requestActor(ctx)
		if !ok {
			response.Message(ctx, fasthttp.StatusForbidden, "not authorized")
			return
		}

		title := formValue(ctx, "title")
		description := formValue(ctx, "description")
		statusStr := formValue(ctx, "status")
		if statusStr == "" {
			statusStr = "1"
		}

		status, err := parseStatus(statusStr)
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("invalid task status", err))
			return
		}

		if title == "" {
			response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("Missing required fields.", errors.New("title is required")))
			return
		}

		t, err := svc.Task.Create(stdCtx, title, description, status, actor)
		if err != nil {
			if errors.Is(err, task.ErrTitleRequired) {
				response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("Missing required fields.", err))
				return
			}
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError("Error creating task.", err))
			return
		}

		response.JSON(ctx, fasthttp.StatusCreated, t)
	})

	// Fetch one task. Missing and unauthorized are the same 404.
	r.GET("/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actor, ok := requestActor(ctx)
		if !ok {
			response.Message(ctx, fasthttp.StatusForbidden, "not authorized")
			return
		}

		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrNotFound("Unable to find the page.", err))
			return
		}

		t, err := svc.Task.Get(stdCtx, id, actor)
		if err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				response.Error(ctx, stdCtx, perrors.NewErrNotFound("Task not found.", err))
				return
			}
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError("Error fetching task.", err))
			return
		}

		response.JSON(ctx, fasthttp.StatusOK, t)
	})

	// Partial update; empty fields in the form are treated as omitted.
	r.PUT("/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actor, ok := requestActor(ctx)
		if !ok {
			response.Message(ctx, fasthttp.StatusForbidden, "not authorized")
			return
		}

		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrNotFound("Unable to find the page.", err))
			return
		}

		req := &task.UpdateTaskRequest{}
		if title := formValue(ctx, "title"); title != "" {
			req.Title = &title
		}
		if description := formValue(ctx, "description"); description != "" {
			req.Description = &description
		}

		statusStr := formValue(ctx, "status")
		if req.Title == nil && req.Description == nil && statusStr == "" {
			response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("Invalid request", errors.New("no fields to update")))
			return
		}
		if statusStr != "" {
			status, err := parseStatus(statusStr)
			if err != nil {
				response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("invalid task status", err))
				return
			}
			req.Status = &status
		}

		t, err := svc.Task.Update(stdCtx, id, actor, req)
		if err != nil {
			switch {
			case errors.Is(err, task.ErrNoFieldsToUpdate):
				response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("Invalid request", err))
			case errors.Is(err, task.ErrNotAllowed):
				response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest("Unable to update task", err))
			default:
				response.Error(ctx, stdCtx, perrors.NewErrInternalServerError(response.InternalErrorMessage, err))
			}
			return
		}

		response.JSON(ctx, fasthttp.StatusOK, t)
	})

	// Delete a task permanently.
	r.DELETE("/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		actor, ok := requestActor(ctx)
		if !ok {
			response.Message(ctx, fasthttp.StatusForbidden, "not authorized")
			return
		}

		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrNotFound("Unable to find the page.", err))
			return
		}

		if err := svc.Task.Delete(stdCtx, id, actor); err != nil {
			if errors.Is(err, task.ErrNotAllowed) {
				response.Error(ctx, stdCtx, perrors.NewErrInvalidRequest(fmt.Sprintf("task %d was not deleted", id), err))
				return
			}
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError("Error deleting task.", err))
			return
		}

		response.Message(ctx, fasthttp.StatusOK, fmt.Sprintf("task %d was deleted", id))
	})
}

func parseStatus(s string) (task.Status, error) {
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return task.StatusFromCode(code)
}
