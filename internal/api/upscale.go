package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/anime4k/internal/config"
	"github.com/rm-hull/anime4k/internal/kernel"
	"github.com/rm-hull/anime4k/internal/png"
	"github.com/rm-hull/anime4k/internal/png/stage"
	"github.com/sirupsen/logrus"
)

const DefaultMaxBodyBytes = 32 << 20

// DefaultMaxOutputPixels bounds the upscaled image, 4096x4096 by default.
const DefaultMaxOutputPixels = 1 << 24

type UpscaleHandler struct {
	kernels      *kernel.Kernels
	defaults     config.Config
	maxBodyBytes int64
	maxPixels    int64
	logger       logrus.FieldLogger
}

func NewUpscaleHandler(defaults config.Config, logger logrus.FieldLogger) *UpscaleHandler {
	return &UpscaleHandler{
		kernels:      kernel.New(defaults.Workers),
		defaults:     defaults,
		maxBodyBytes: DefaultMaxBodyBytes,
		maxPixels:    DefaultMaxOutputPixels,
		logger:       logger,
	}
}

func (h *UpscaleHandler) Register(r gin.IRouter) {
	r.POST("/v1/upscale", h.Upscale)
}

// Upscale reads an image from the request body and responds with the
// upscaled, sharpened PNG. Query parameters scale, passes, push, gradient,
// filter and denoise override the server defaults.
func (h *UpscaleHandler) Upscale(c *gin.Context) {
	cfg, err := h.configFromQuery(c)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read body: %v", err)})
		return
	}

	// Size the output from the header alone so oversized requests are turned
	// away before anything is allocated for them.
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("failed to decode image: %v", err)})
		return
	}
	if err := h.checkOutputSize(header.Width, header.Height, cfg.Scale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := png.NewPngFromReader(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("failed to decode image: %v", err)})
		return
	}

	start := time.Now()
	err = img.Pipeline(c.Request.Context(),
		&stage.GaussianBlurStage{Sigma: cfg.DenoiseSigma},
		&stage.ResampleStage{Scale: cfg.Scale, Filter: cfg.Filter},
		&stage.SharpenStage{Kernels: h.kernels, Options: cfg.KernelOptions()},
	)
	if err != nil {
		h.logger.WithError(err).Error("Upscale failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := img.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	elapsed := time.Since(start)
	h.logger.WithFields(logrus.Fields{
		"format":  img.Format,
		"size":    fmt.Sprintf("%dx%d", img.Bounds.Dx(), img.Bounds.Dy()),
		"elapsed": elapsed.String(),
	}).Info("Upscaled")

	c.Header("X-Processing-Time", elapsed.String())
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// checkOutputSize rejects a request whose upscaled image would exceed the
// pixel limit. Sizes are compared as floats so huge scales cannot overflow.
func (h *UpscaleHandler) checkOutputSize(width, height int, scale float64) error {
	w := float64(width) * scale
	hgt := float64(height) * scale
	if w*hgt > float64(h.maxPixels) {
		return fmt.Errorf("output of %.0fx%.0f exceeds the limit of %d pixels", w, hgt, h.maxPixels)
	}
	return nil
}

func (h *UpscaleHandler) configFromQuery(c *gin.Context) (config.Config, error) {
	cfg := h.defaults

	floats := map[string]*float64{"scale": &cfg.Scale, "denoise": &cfg.DenoiseSigma}
	for name, dst := range floats {
		if v, ok := c.GetQuery(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s: %q", name, v)
			}
			*dst = f
		}
	}

	ints := map[string]*int{"passes": &cfg.Passes, "push": &cfg.PushStrength, "gradient": &cfg.GradientStrength}
	for name, dst := range ints {
		if v, ok := c.GetQuery(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s: %q", name, v)
			}
			*dst = n
		}
	}

	if v, ok := c.GetQuery("filter"); ok {
		cfg.Filter = v
	}
	return cfg, nil
}
