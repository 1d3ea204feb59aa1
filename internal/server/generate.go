package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"k8s.io/klog/v2"

	finmemo "github.com/alnah/go-finmemo"
)

// Form field names sent by the memo form.
const (
	FieldPayload        = "payload"
	FieldCoverImage     = "coverImage"
	FieldLogo           = "logo"
	FieldFooterLogo     = "footerLogo"
	FieldPropertyImages = "propertyImages"
)

// DownloadName is the file name suggested to the browser.
const DownloadName = "finance-memorandum.pdf"

// errRequest marks malformed requests that are not payload problems.
var errRequest = errors.New("malformed request")

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	req, err := s.decodeRequest(r)
	if err != nil {
		s.fail(w, reqID, err)
		return
	}

	res, err := s.renderer.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, reqID, err)
		return
	}

	klog.V(1).Infof("[%s] memo %s: %d pages", reqID, res.RequestID, res.Pages)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", DownloadName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Header().Set("X-Memo-Id", res.RequestID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

// decodeRequest accepts multipart/form-data (the memo form), a url-encoded
// form with a payload field, or a raw JSON body.
func (s *Server) decodeRequest(r *http.Request) (finmemo.Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return finmemo.Request{}, formError(err)
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		return s.decodeMultipart(r.MultipartForm)

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return finmemo.Request{}, formError(err)
		}
		p, err := finmemo.DecodePayload(strings.NewReader(r.PostForm.Get(FieldPayload)), s.opts.MaxPayloadBytes)
		return finmemo.Request{Payload: p}, err

	default:
		p, err := finmemo.DecodePayload(r.Body, s.opts.MaxPayloadBytes)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return finmemo.Request{}, fmt.Errorf("%w: %v", finmemo.ErrPayloadTooLarge, err)
			}
		}
		return finmemo.Request{Payload: p}, err
	}
}

func (s *Server) decodeMultipart(form *multipart.Form) (finmemo.Request, error) {
	var raw string
	if values := form.Value[FieldPayload]; len(values) > 0 {
		raw = values[0]
	}
	p, err := finmemo.DecodePayload(strings.NewReader(raw), s.opts.MaxPayloadBytes)
	if err != nil {
		return finmemo.Request{}, err
	}

	req := finmemo.Request{Payload: p}
	if req.Files.CoverImage, err = firstUpload(form, FieldCoverImage); err != nil {
		return finmemo.Request{}, err
	}
	if req.Files.Logo, err = firstUpload(form, FieldLogo); err != nil {
		return finmemo.Request{}, err
	}
	if req.Files.FooterLogo, err = firstUpload(form, FieldFooterLogo); err != nil {
		return finmemo.Request{}, err
	}

	for _, fh := range form.File[FieldPropertyImages] {
		if len(req.Files.PropertyImages) == finmemo.MaxPropertyImages {
			break
		}
		f, err := readUpload(fh)
		if err != nil {
			return finmemo.Request{}, err
		}
		if f != nil {
			req.Files.PropertyImages = append(req.Files.PropertyImages, f)
		}
	}
	return req, nil
}

func firstUpload(form *multipart.Form, field string) (*finmemo.File, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return readUpload(headers[0])
}

// readUpload loads one part. Empty parts count as absent.
func readUpload(fh *multipart.FileHeader) (*finmemo.File, error) {
	if fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", errRequest, fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errRequest, fh.Filename, err)
	}
	return &finmemo.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return fmt.Errorf("%w: %v", finmemo.ErrPayloadTooLarge, err)
	}
	return fmt.Errorf("%w: %v", errRequest, err)
}

// errorBody is the JSON returned on failure. Diagnostics stay in the log.
type errorBody struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, reqID string, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		klog.Errorf("[%s] generate: %v", reqID, err)
	} else {
		klog.V(1).Infof("[%s] rejected: %v", reqID, err)
	}
	respondJSON(w, status, errorBody{Status: "failed", Error: message, RequestID: reqID})
}

// classify maps a pipeline error to an HTTP status and a fixed message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, finmemo.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload too large"
	case errors.Is(err, finmemo.ErrInvalidPayload), errors.Is(err, finmemo.ErrNilPayload):
		return http.StatusBadRequest, "invalid payload"
	case errors.Is(err, errRequest):
		return http.StatusBadRequest, "malformed request"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, "PDF generation timed out"
	case errors.Is(err, finmemo.ErrPoolClosed):
		return http.StatusInternalServerError, "server is shutting down"
	case errors.Is(err, finmemo.ErrCoverRender):
		return http.StatusInternalServerError, "cover typesetting failed"
	case errors.Is(err, finmemo.ErrBodyTemplate),
		errors.Is(err, finmemo.ErrBrowserConnect),
		errors.Is(err, finmemo.ErrPageCreate),
		errors.Is(err, finmemo.ErrPageLoad),
		errors.Is(err, finmemo.ErrPDFGeneration):
		return http.StatusInternalServerError, "body rendering failed"
	case errors.Is(err, finmemo.ErrMerge):
		return http.StatusInternalServerError, "document assembly failed"
	default:
		return http.StatusInternalServerError, "PDF generation failed"
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		klog.Warningf("writing response: %v", err)
	}
}
