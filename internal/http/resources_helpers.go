package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"filmart-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

const (
	maxJSONBody     = 1 << 20
	multipartMemory = 32 << 20
)

var errBadPayload = services.ErrBadRequest("Invalid request body")

// decodeInput binds a JSON, urlencoded or multipart body onto dst. Form
// values are re-encoded as JSON so the same input types serve both.
func decodeInput(w http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if r.MultipartForm == nil {
			if err := parseMultipart(w, r, maxJSONBody); err != nil {
				return err
			}
		}
		return decodeForm(r.MultipartForm.Value, dst)
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return errBadPayload
		}
		return decodeForm(r.PostForm, dst)
	default:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return services.ErrTooLarge("Request body too large")
			}
			return errBadPayload
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, dst); err != nil {
			return errBadPayload
		}
		return nil
	}
}

func decodeForm(values url.Values, dst any) error {
	fields := make(map[string]any, len(values))
	for key, items := range values {
		name := strings.TrimSuffix(key, "[]")
		if name != key || len(items) > 1 {
			fields[name] = items
			continue
		}
		if len(items) == 1 {
			fields[name] = items[0]
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errBadPayload
	}
	return nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.ErrTooLarge("File too large")
		}
		return services.ErrBadRequest("Invalid multipart form")
	}
	return nil
}

// readFiles parses a multipart upload and returns the files sent under
// field. Files under any other field are rejected.
func (s *Server) readFiles(w http.ResponseWriter, r *http.Request, field string, max int) ([]services.File, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, nil
	}
	if r.MultipartForm == nil {
		limit := s.uploadLimit()*int64(max) + maxJSONBody
		if err := parseMultipart(w, r, limit); err != nil {
			return nil, err
		}
	}
	for name := range r.MultipartForm.File {
		if name != field {
			return nil, services.ErrBadRequest(fmt.Sprintf("Unexpected file field %q", name))
		}
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > max {
		return nil, services.ErrBadRequest(fmt.Sprintf("Too many files, maximum is %d", max))
	}
	files := make([]services.File, 0, len(headers))
	for _, header := range headers {
		// Batches report oversized files per item through the media check.
		if max == 1 && header.Size > s.uploadLimit() {
			return nil, services.ErrTooLarge(fmt.Sprintf("File too large, maximum size is %d MB", s.uploadLimit()>>20))
		}
		f, err := header.Open()
		if err != nil {
			return nil, services.ErrBadRequest("Invalid multipart form")
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, services.ErrBadRequest("Invalid multipart form")
		}
		files = append(files, services.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func (s *Server) uploadLimit() int64 {
	if s.Config.UploadMaxBytes > 0 {
		return s.Config.UploadMaxBytes
	}
	return services.DefaultMaxUploadBytes
}

func (s *Server) readFile(w http.ResponseWriter, r *http.Request, field string) (*services.File, error) {
	files, err := s.readFiles(w, r, field, 1)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// bindUpload reads the optional single file under field and then the form
// fields into In. It writes the error response itself.
func bindUpload[In any](s *Server, w http.ResponseWriter, r *http.Request, field string) (*services.File, In, bool) {
	var in In
	file, err := s.readFile(w, r, field)
	if err == nil {
		err = decodeInput(w, r, &in)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, in, false
	}
	return file, in, true
}
