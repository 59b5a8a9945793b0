package blob

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"campus-chat/internal/httpx"
	"campus-chat/internal/logging"
)

const MaxUploadSize = 10 << 20

type Handler struct {
	store *Store
}

func NewHandler(s *Store) *Handler {
	return &Handler{store: s}
}

// Upload stores the multipart field "file" and returns its reference.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		httpx.Error(w, http.StatusBadRequest, errors.Errorf("upload larger than %s or malformed", humanize.IBytes(MaxUploadSize)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, errors.Wrap(err, "reading form field file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, errors.Wrap(err, "reading upload"))
		return
	}

	ref := h.store.Put(header.Filename, header.Header.Get("Content-Type"), data)
	logging.FromContext(r.Context()).Info("file uploaded", "id", ref.ID, "name", ref.Name, "size", humanize.IBytes(uint64(ref.Size)))
	httpx.JSON(w, http.StatusCreated, ref)
}

// Serve writes the file back with the MIME type it was uploaded with. Only
// images and videos render inline; everything else is a download, and the
// response is sandboxed so uploaded markup never runs on this origin.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ref, data, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, err)
		return
	}
	disposition := "attachment"
	if (strings.HasPrefix(ref.MIMEType, "image/") && ref.MIMEType != "image/svg+xml") || strings.HasPrefix(ref.MIMEType, "video/") {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", ref.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", disposition+"; filename="+strconv.Quote(ref.Name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
