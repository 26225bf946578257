package httpapi

import (
	"net/http"

	"filmart-backend-go/internal/services"
)

type galleryBatchResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Data    any                   `json:"data"`
	Errors  []services.BatchError `json:"errors,omitempty"`
}

func (s *Server) ListGallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	images, err := s.Services.Gallery.List(r.Context(), services.GalleryFilter{
		Category: q.Get("category"),
		Year:     q.Get("year"),
		Featured: q.Get("featured"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteList(w, images)
}

func (s *Server) GalleryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Services.Gallery.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, stats)
}

func (s *Server) GetGalleryImage(w http.ResponseWriter, r *http.Request) {
	image, err := s.Services.Gallery.Get(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, image)
}

// UploadGalleryImages stores every valid file of the batch and reports the
// rejected ones next to them.
func (s *Server) UploadGalleryImages(w http.ResponseWriter, r *http.Request) {
	files, err := s.readFiles(w, r, "images", services.MaxGalleryBatch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var in services.GalleryInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	batch, err := s.Services.Gallery.CreateBatch(r.Context(), CurrentAdmin(r), in, files)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, galleryBatchResponse{
		Success: true,
		Count:   len(batch.Data),
		Data:    batch.Data,
		Errors:  batch.Errors,
	})
}

func (s *Server) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	file, err := s.readFile(w, r, "image")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var in services.GalleryInput
	if err := decodeInput(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	image, err := s.Services.Gallery.Update(r.Context(), pathID(r), in, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, image)
}

func (s *Server) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	if err := s.Services.Gallery.Delete(r.Context(), pathID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Image deleted successfully")
}
