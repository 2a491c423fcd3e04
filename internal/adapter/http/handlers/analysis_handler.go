package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	request "restoredoc/internal/adapter/http/dto/request"
	response "restoredoc/internal/adapter/http/dto/response"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase"
	"restoredoc/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxPhotoBytes = 10 << 20

var (
	errInvalidAnalysisPayload = pkg.NewDomainErrorSimple("INVALID_ANALYSIS_INPUT", "Send damage_type and one or more photos", http.StatusBadRequest)
	errPhotoTooLarge          = pkg.NewDomainErrorSimple("PHOTO_TOO_LARGE", "Photos must be 10MB or smaller", http.StatusRequestEntityTooLarge)
)

// classificationLabeler renders the human label of an estimate's tiers.
type classificationLabeler interface {
	Describe(e entities.Estimate) string
}

type AnalysisHandler struct {
	usecase usecase.IAnalysisUseCase
	labels  classificationLabeler
	logger  *zap.Logger
}

// NewAnalysisHandler builds the handler. labels may be nil, in which case
// responses carry no classification label.
func NewAnalysisHandler(uc usecase.IAnalysisUseCase, labels classificationLabeler, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{usecase: uc, labels: labels, logger: logger}
}

// Analyze godoc
// @Summary      Draft an estimate from damage photos
// @Description  Multipart form with damage_type and one or more photos files, or a JSON body with base64 photos. The draft is not saved.
// @Tags         analyses
// @Accept       mpfd,json
// @Produce      json
// @Param        damage_type  formData  string  true  "water, fire or mold"
// @Param        photos       formData  file    true  "Damage photos"
// @Success      200          {object}  response.EstimateResponse
// @Failure      400          {object}  pkg.HTTPError
// @Failure      422          {object}  pkg.HTTPError
// @Failure      502          {object}  pkg.HTTPError
// @Failure      503          {object}  pkg.HTTPError
// @Router       /analyses [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var (
		damageType string
		photos     []entities.Photo
		err        error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		damageType = c.PostForm("damage_type")
		photos, err = readFormPhotos(c)
	} else {
		var payload request.AnalysisRequest
		if bindErr := c.ShouldBindJSON(&payload); bindErr != nil {
			err = errInvalidAnalysisPayload
		} else {
			damageType, photos = payload.DamageType, payload.ToPhotos()
		}
	}
	if err != nil {
		appErr := mapAnalysisError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	for i := range photos {
		if len(photos[i].Data) > maxPhotoBytes {
			c.JSON(errPhotoTooLarge.HTTPStatus, errPhotoTooLarge.ToHTTPError())
			return
		}
		if photos[i].MIMEType == "" || photos[i].MIMEType == "application/octet-stream" {
			photos[i].MIMEType = http.DetectContentType(photos[i].Data)
		}
	}

	draft, err := h.usecase.Analyze(c.Request.Context(), damageType, photos)
	if err != nil {
		h.logger.Warn("analysis failed", zap.String("damage_type", damageType), zap.Int("photos", len(photos)), zap.Error(err))
		appErr := mapAnalysisError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	label := ""
	if h.labels != nil {
		label = h.labels.Describe(draft)
	}
	c.JSON(http.StatusOK, response.FromEstimate(draft, label))
}

func readFormPhotos(c *gin.Context) ([]entities.Photo, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errInvalidAnalysisPayload
	}
	files := form.File["photos"]
	photos := make([]entities.Photo, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxPhotoBytes {
			return nil, errPhotoTooLarge
		}
		data, err := readFormFile(fh)
		if err != nil {
			return nil, err
		}
		photos = append(photos, entities.Photo{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return photos, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
}

func mapAnalysisError(err error) *pkg.AppError {
	var appErr *pkg.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrInvalidDamageType):
		return pkg.NewDomainErrorSimple("INVALID_DAMAGE_TYPE", "Damage type must be water, fire or mold", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNoPhotos):
		return pkg.NewDomainErrorSimple("NO_PHOTOS", "At least one photo is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTooManyPhotos):
		return pkg.NewDomainErrorSimple("TOO_MANY_PHOTOS", "Too many photos in one analysis", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrVisionNotConfigured):
		return pkg.NewDomainErrorSimple("VISION_UNAVAILABLE", "Photo analysis is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrMalformedAssessment):
		return pkg.NewDomainError("VISION_BAD_ANSWER", "Photo analysis returned an unusable answer", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrVisionFailed):
		return pkg.NewDomainError("VISION_FAILED", "Photo analysis failed", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrInvalidClassification):
		return pkg.NewDomainError("INVALID_CLASSIFICATION", "Classification not recognized by the pricing rules", err, http.StatusUnprocessableEntity)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
