package httpapi

import (
	"net/http"

	"github.com/YoshitsuguKoike/taskplan/internal/app"
	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	epics, err := s.tasks.ListEpics(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	subtasks, err := s.tasks.ListSubtasks(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewHealth(len(tasks), len(epics), len(subtasks)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items, err := s.tasks.History(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItems(items))
}

func (s *Server) handlePrioritized(w http.ResponseWriter, r *http.Request) {
	items, err := s.tasks.Prioritized(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItems(items))
}

// mutateByID runs fn with the {id} path parameter and answers 200
func (s *Server) mutateByID(w http.ResponseWriter, r *http.Request, fn func(id model.TaskID) error) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fn(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) respondSaved(w http.ResponseWriter, r *http.Request, id model.TaskID, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: int(id)})
}

// ==================== Tasks ====================

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItems(tasks))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.tasks.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItem(t))
}

func (s *Server) handleSaveTask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := req.ToTask()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.IsCreate() {
		id, err := s.tasks.AddTask(r.Context(), t)
		s.respondSaved(w, r, id, err)
		return
	}
	s.respondSaved(w, r, t.ID(), s.tasks.UpdateTask(r.Context(), t))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, func(id model.TaskID) error {
		return s.tasks.DeleteTask(r.Context(), id)
	})
}

func (s *Server) handleClearTasks(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.ClearTasks(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ==================== Epics ====================

func (s *Server) handleListEpics(w http.ResponseWriter, r *http.Request) {
	epics, err := s.tasks.ListEpics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItems(epics))
}

func (s *Server) handleGetEpic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.tasks.GetEpic(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItem(e))
}

func (s *Server) handleListEpicSubtasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	subtasks, err := s.tasks.ListEpicSubtasks(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItems(subtasks))
}

func (s *Server) handleSaveEpic(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := req.ToEpic()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.IsCreate() {
		id, err := s.tasks.AddEpic(r.Context(), e)
		s.respondSaved(w, r, id, err)
		return
	}
	s.respondSaved(w, r, e.ID(), s.tasks.UpdateEpic(r.Context(), e))
}

func (s *Server) handleDeleteEpic(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, func(id model.TaskID) error {
		return s.tasks.DeleteEpic(r.Context(), id)
	})
}

func (s *Server) handleClearEpics(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.ClearEpics(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ==================== Subtasks ====================

func (s *Server) handleListSubtasks(w http.ResponseWriter, r *http.Request) {
	subtasks, err := s.tasks.ListSubtasks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItems(subtasks))
}

func (s *Server) handleGetSubtask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.tasks.GetSubtask(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromItem(st))
}

func (s *Server) handleSaveSubtask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := req.ToSubtask()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.IsCreate() {
		id, err := s.tasks.AddSubtask(r.Context(), st)
		s.respondSaved(w, r, id, err)
		return
	}
	s.respondSaved(w, r, st.ID(), s.tasks.UpdateSubtask(r.Context(), st))
}

func (s *Server) handleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, func(id model.TaskID) error {
		return s.tasks.DeleteSubtask(r.Context(), id)
	})
}

func (s *Server) handleClearSubtasks(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.ClearSubtasks(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
