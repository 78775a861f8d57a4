package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/extract"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
	"resumeai-backend/pkg/security/antivirus"
	"resumeai-backend/pkg/storage"

	"github.com/google/uuid"
)

// UploadGuard throttles uploads; security.UploadLimiter implements it.
type UploadGuard interface {
	AllowUpload(ctx context.Context, fingerprint, userID string) (bool, int, error)
}

// ErrUploadThrottled is returned when a caller uploads too often.
var ErrUploadThrottled = errors.New("too many uploads")

type uploadUsecase struct {
	guard   UploadGuard
	scanner antivirus.Scanner
	archive *storage.ResumeArchive
	now     func() time.Time
}

// NewUploadUsecase builds resume text extraction. guard and archive may be nil; a nil
// scanner accepts every file.
func NewUploadUsecase(guard UploadGuard, scanner antivirus.Scanner, archive *storage.ResumeArchive) domain.UploadUsecase {
	if scanner == nil {
		scanner = antivirus.NoOp{}
	}
	return &uploadUsecase{guard: guard, scanner: scanner, archive: archive, now: time.Now}
}

func (u *uploadUsecase) ExtractText(ctx context.Context, caller domain.Caller, upload domain.ResumeUpload) (*domain.ExtractTextResponse, error) {
	if u.guard != nil {
		allowed, _, err := u.guard.AllowUpload(ctx, caller.Fingerprint, caller.UserID)
		if err != nil {
			logger.Log.Warn("Upload limiter unavailable", "error", err)
		}
		if !allowed {
			return nil, ErrUploadThrottled
		}
	}

	check := security.ValidateResumeFile(upload.Filename, upload.Data, http.DetectContentType(upload.Data))
	if !check.Valid {
		security.DefaultLogger().Log(ctx, security.SecurityEvent{
			Event:        security.EventUploadRejected,
			SubjectType:  "fingerprint",
			SubjectValue: caller.Fingerprint,
			RequestID:    RequestIDFrom(ctx),
			Details:      map[string]any{"reason": check.Error, "ext": check.Extension},
		})
		return nil, domain.NewInputError(check.Error)
	}

	if v := u.scanner.Scan(ctx, upload.Filename, upload.Data); v.Rejected() {
		reason := "infected"
		if v.Err != nil {
			reason = "scan_failed"
			logger.Log.Error("Antivirus scan failed", "scanner", v.Scanner, "error", v.Err)
		}
		security.DefaultLogger().Log(ctx, security.SecurityEvent{
			Event:        security.EventUploadRejected,
			SubjectType:  "fingerprint",
			SubjectValue: caller.Fingerprint,
			RequestID:    RequestIDFrom(ctx),
			Details:      map[string]any{"reason": reason, "threat": v.Threat, "scanner": v.Scanner},
		})
		return nil, domain.NewInputError("The file was rejected by the malware scanner")
	}

	text, err := extract.Text(check.Extension, upload.Data)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			return nil, domain.NewInputError("No readable text found in the file. Scanned PDFs are not supported.")
		}
		if errors.Is(err, extract.ErrUnsupported) {
			return nil, domain.NewInputError("Unsupported file type")
		}
		return nil, domain.NewInputError("The file could not be read")
	}
	text = capText(text, domain.ParseResumeMaxChars)

	if u.archive.Enabled() {
		owner := caller.UserID
		if owner == "" {
			owner = "anon-" + caller.Fingerprint
		}
		key := fmt.Sprintf("resumes/%s/%s/%s%s", owner, u.now().UTC().Format("2006-01-02"), uuid.NewString(), check.Extension)
		if err := u.archive.Put(ctx, key, upload.Data, check.DetectedMIME); err != nil {
			logger.Log.Warn("Resume archive failed", "error", err)
		}
	}

	return &domain.ExtractTextResponse{Text: text, Chars: len([]rune(text))}, nil
}
