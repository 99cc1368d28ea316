// internal/app/features/curriculum/lessons.go
package curriculum

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"time"

	curidx "github.com/dalemusser/coursehub/internal/app/system/curriculum"
	"github.com/dalemusser/coursehub/internal/app/system/sanitize"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// lessonRequest is the body for adding a lesson to a week.
type lessonRequest struct {
	Title       string            `json:"title"`
	LessonType  string            `json:"lessonType"`
	VideoURL    string            `json:"video_url"`
	TextContent string            `json:"text_content"`
	DurationMin int               `json:"duration_min"`
	Resources   []models.Resource `json:"resources"`
}

// ServeAddLesson handles POST .../curriculum/weeks/{weekID}/lessons.
//
// Text content is scrubbed before it is stored; lesson type may be omitted
// and is inferred during re-indexing.
func (h *Handler) ServeAddLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	weekID := chi.URLParam(r, "weekID")
	h.mutate(w, r, http.StatusBadRequest, func(cur *models.Curriculum) error {
		if req.Title == "" {
			return errors.New("lesson title is required")
		}
		week := curidx.FindWeek(cur, weekID)
		if week == nil {
			return weekNotFound(*cur, weekID)
		}
		week.Lessons = append(week.Lessons, models.Lesson{
			Title:       req.Title,
			LessonType:  req.LessonType,
			VideoURL:    req.VideoURL,
			TextContent: sanitize.ScrubRichText(req.TextContent),
			DurationMin: req.DurationMin,
			Resources:   req.Resources,
		})
		return nil
	})
}

// videoLessonRequest is the body for the video-lesson endpoint. Either a
// playable URL or an uploaded file name must be supplied.
type videoLessonRequest struct {
	Title          string `json:"title"`
	VideoURL       string `json:"video_url"`
	UploadFilename string `json:"upload_filename"`
	DurationMin    int    `json:"duration_min"`
}

// ServeAddVideoLesson handles POST .../curriculum/weeks/{weekID}/video-lessons.
//
// When only an upload is given, the stored URL is a media path with a
// generated name so uploads cannot collide or leak the original filename.
func (h *Handler) ServeAddVideoLesson(w http.ResponseWriter, r *http.Request) {
	var req videoLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	weekID := chi.URLParam(r, "weekID")
	h.mutate(w, r, http.StatusBadRequest, func(cur *models.Curriculum) error {
		if req.Title == "" {
			return errors.New("lesson title is required")
		}
		videoURL := req.VideoURL
		if videoURL == "" {
			if req.UploadFilename == "" {
				return errors.New("a video URL or an uploaded file is required")
			}
			videoURL = "media/videos/" + uuid.New().String() + path.Ext(req.UploadFilename)
		}
		week := curidx.FindWeek(cur, weekID)
		if week == nil {
			return weekNotFound(*cur, weekID)
		}
		week.Lessons = append(week.Lessons, models.Lesson{
			Title:       req.Title,
			LessonType:  models.LessonTypeVideo,
			VideoURL:    videoURL,
			DurationMin: req.DurationMin,
		})
		return nil
	})
}

// sectionRequest is the body for adding a section to a week.
type sectionRequest struct {
	Title string `json:"title"`
}

// ServeAddSection handles POST .../curriculum/weeks/{weekID}/sections.
func (h *Handler) ServeAddSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	weekID := chi.URLParam(r, "weekID")
	h.mutate(w, r, http.StatusBadRequest, func(cur *models.Curriculum) error {
		if req.Title == "" {
			return errors.New("section title is required")
		}
		week := curidx.FindWeek(cur, weekID)
		if week == nil {
			return weekNotFound(*cur, weekID)
		}
		week.Sections = append(week.Sections, models.Section{Title: req.Title})
		return nil
	})
}

// liveClassRequest is the body for adding a live class to a week.
type liveClassRequest struct {
	Title       string     `json:"title"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	MeetingURL  string     `json:"meeting_url"`
}

// ServeAddLiveClass handles POST .../curriculum/weeks/{weekID}/live-classes.
// The new class gets a positional id on re-index and keeps it afterwards.
func (h *Handler) ServeAddLiveClass(w http.ResponseWriter, r *http.Request) {
	var req liveClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	weekID := chi.URLParam(r, "weekID")
	h.mutate(w, r, http.StatusBadRequest, func(cur *models.Curriculum) error {
		if req.Title == "" {
			return errors.New("live class title is required")
		}
		week := curidx.FindWeek(cur, weekID)
		if week == nil {
			return weekNotFound(*cur, weekID)
		}
		week.LiveClasses = append(week.LiveClasses, models.LiveClass{
			Title:       req.Title,
			ScheduledAt: req.ScheduledAt,
			MeetingURL:  req.MeetingURL,
		})
		return nil
	})
}
