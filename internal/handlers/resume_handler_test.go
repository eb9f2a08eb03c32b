package handlers

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/resumely/backend/internal/models"
	"gorm.io/datatypes"
)

func TestToResumeResponse(t *testing.T) {
	c := qt.New(t)

	now := time.Now()
	resume := &models.Resume{
		ID:        uuid.New(),
		FileName:  "cv.pdf",
		FileKey:   "resumes/u/r.pdf",
		FileSize:  2048,
		MimeType:  "application/pdf",
		FileURL:   "https://cdn.example.com/resumes/u/r.pdf",
		PageCount: 2,
		PreviewW:  640,
		PreviewH:  828,
		Analysis:  datatypes.JSON([]byte(`{"score":72}`)),
		Score:     72,
		CreatedAt: now,
	}

	resp := toResumeResponse(resume)
	c.Assert(resp.ID, qt.Equals, resume.ID)
	c.Assert(resp.FileName, qt.Equals, "cv.pdf")
	c.Assert(resp.FileSize, qt.Equals, int64(2048))
	c.Assert(resp.PageCount, qt.Equals, 2)
	c.Assert(resp.PreviewW, qt.Equals, 640)
	c.Assert(resp.PreviewH, qt.Equals, 828)
	c.Assert(resp.Score, qt.Equals, 72)
	c.Assert(resp.CreatedAt, qt.Equals, now)
}
