// internal/app/system/curriculum/indexer.go

// Package curriculum maintains the positional id scheme of a course's
// curriculum tree.
//
// Every structural mutation (add/update/delete/reorder week, add lesson,
// section, or live class) must call Reindex on the whole tree immediately
// before persisting it. Ids are a pure function of position, so re-indexing
// an unchanged tree is a no-op and re-indexing after a reorder yields ids
// that reflect the new order.
package curriculum

import (
	"fmt"

	"github.com/dalemusser/coursehub/internal/domain/models"
)

// Reindex walks the tree in document order and assigns positional ids:
//
//	week:           week_{n}
//	direct lesson:  lesson_w{n}_{m}
//	section:        section_{n}_{s}
//	section lesson: lesson_{n}_{s}_{m}
//	resource:       resource_{lessonID}_{r}
//	live class:     live_w{n}_{c}
//
// All indexes are 1-based. Lessons, sections, and resources are always
// renumbered. Live classes keep an existing id: external calendar entries
// reference them, so only id-less live classes receive a positional id.
//
// Reindex also fills in a missing LessonType: "video" when the lesson has a
// video URL, "text" otherwise.
func Reindex(cur *models.Curriculum) {
	if cur == nil {
		return
	}
	for wi := range cur.Weeks {
		week := &cur.Weeks[wi]
		week.ID = fmt.Sprintf("week_%d", wi+1)

		for li := range week.Lessons {
			lesson := &week.Lessons[li]
			lesson.ID = fmt.Sprintf("lesson_w%d_%d", wi+1, li+1)
			reindexLesson(lesson)
		}

		for si := range week.Sections {
			section := &week.Sections[si]
			section.ID = fmt.Sprintf("section_%d_%d", wi+1, si+1)
			for li := range section.Lessons {
				lesson := &section.Lessons[li]
				lesson.ID = fmt.Sprintf("lesson_%d_%d_%d", wi+1, si+1, li+1)
				reindexLesson(lesson)
			}
		}

		for ci := range week.LiveClasses {
			lc := &week.LiveClasses[ci]
			if lc.ID == "" {
				lc.ID = fmt.Sprintf("live_w%d_%d", wi+1, ci+1)
			}
		}
	}
}

// reindexLesson renumbers a lesson's resources and infers a missing type.
func reindexLesson(lesson *models.Lesson) {
	if lesson.LessonType == "" {
		if lesson.VideoURL != "" {
			lesson.LessonType = models.LessonTypeVideo
		} else {
			lesson.LessonType = models.LessonTypeText
		}
	}
	for ri := range lesson.Resources {
		lesson.Resources[ri].ID = fmt.Sprintf("resource_%s_%d", lesson.ID, ri+1)
	}
}

// Stats summarizes a curriculum tree for the stats endpoint.
type Stats struct {
	Weeks        int `json:"weeks"`
	Sections     int `json:"sections"`
	Lessons      int `json:"lessons"`
	VideoLessons int `json:"video_lessons"`
	TextLessons  int `json:"text_lessons"`
	LiveClasses  int `json:"live_classes"`
	Resources    int `json:"resources"`
}

// Summarize counts the nodes of a curriculum tree.
func Summarize(cur models.Curriculum) Stats {
	var s Stats
	s.Weeks = len(cur.Weeks)
	countLesson := func(l models.Lesson) {
		s.Lessons++
		switch l.LessonType {
		case models.LessonTypeVideo:
			s.VideoLessons++
		case models.LessonTypeText:
			s.TextLessons++
		}
		s.Resources += len(l.Resources)
	}
	for _, w := range cur.Weeks {
		s.Sections += len(w.Sections)
		s.LiveClasses += len(w.LiveClasses)
		for _, l := range w.Lessons {
			countLesson(l)
		}
		for _, sec := range w.Sections {
			for _, l := range sec.Lessons {
				countLesson(l)
			}
		}
	}
	return s
}

// WeekIDs returns the ids of all weeks in order. Not-found errors use this
// to report which week ids are currently valid.
func WeekIDs(cur models.Curriculum) []string {
	ids := make([]string, 0, len(cur.Weeks))
	for _, w := range cur.Weeks {
		ids = append(ids, w.ID)
	}
	return ids
}

// FindWeek returns a pointer to the week with the given id, or nil.
func FindWeek(cur *models.Curriculum, weekID string) *models.Week {
	for i := range cur.Weeks {
		if cur.Weeks[i].ID == weekID {
			return &cur.Weeks[i]
		}
	}
	return nil
}

// Reorder rearranges weeks to the order given by ids. Every current week id
// must appear exactly once; otherwise the curriculum is left untouched and
// an error naming the offending id is returned. Callers must Reindex after
// a successful reorder.
func Reorder(cur *models.Curriculum, ids []string) error {
	if len(ids) != len(cur.Weeks) {
		return fmt.Errorf("reorder list has %d ids, curriculum has %d weeks", len(ids), len(cur.Weeks))
	}
	reordered := make([]models.Week, 0, len(cur.Weeks))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("duplicate week id %q in reorder list", id)
		}
		seen[id] = true
		w := FindWeek(cur, id)
		if w == nil {
			return fmt.Errorf("unknown week id %q in reorder list (valid: %v)", id, WeekIDs(*cur))
		}
		reordered = append(reordered, *w)
	}
	cur.Weeks = reordered
	return nil
}
