package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Krishan098/fo/middleware"
	"github.com/Krishan098/fo/model"
	"github.com/Krishan098/fo/pkg/logger"
	"github.com/Krishan098/fo/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContractHandler struct {
	store       *service.ContractStore
	files       service.FileStore
	queue       *service.PipelineQueue
	maxFileSize int64
}

func NewContractHandler(store *service.ContractStore, files service.FileStore, queue *service.PipelineQueue, maxFileSizeMB int) *ContractHandler {
	return &ContractHandler{
		store:       store,
		files:       files,
		queue:       queue,
		maxFileSize: int64(maxFileSizeMB) << 20,
	}
}

// Upload accepts a PDF contract, registers it with a pending status, and
// schedules the extraction pipeline. Validation failures reject the request
// before any store entry is created.
func (h *ContractHandler) Upload(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are supported"})
		return
	}
	if header.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File size exceeds %dMB limit", h.maxFileSize>>20)})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	if int64(len(data)) > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File size exceeds %dMB limit", h.maxFileSize>>20)})
		return
	}

	contractID := uuid.NewString()

	if err := h.files.Save(c.Request.Context(), contractID, header.Filename, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file: " + err.Error()})
		return
	}

	h.store.CreateJob(&model.ContractJob{
		ID:         contractID,
		Filename:   header.Filename,
		Tenant:     tenant,
		SizeBytes:  int64(len(data)),
		UploadedAt: time.Now(),
	})

	if err := h.queue.Enqueue(service.ContractTask{
		ContractID: contractID,
		Filename:   header.Filename,
		Data:       data,
	}); err != nil {
		logger.Error(c.Request.Context(), "failed to enqueue contract", "contract_id", contractID, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Processing unavailable, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract_id": contractID,
		"filename":    header.Filename,
		"status":      "uploaded",
	})
}

// GetStatus returns the live pipeline status for a contract.
func (h *ContractHandler) GetStatus(c *gin.Context) {
	id := c.Param("id")

	if !h.ownedByCaller(c, id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	status, err := h.store.GetStatus(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	resp := gin.H{
		"contract_id": id,
		"state":       status.State,
		"progress":    status.Progress,
	}
	if status.CurrentStep != "" {
		resp["current_step"] = status.CurrentStep
	}
	if status.Error != "" {
		resp["error"] = status.Error
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns the full extraction result once processing has completed.
func (h *ContractHandler) Get(c *gin.Context) {
	id := c.Param("id")

	if !h.ownedByCaller(c, id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	status, err := h.store.GetStatus(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if status.State != model.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Contract processing not completed. Current status: %s", status.State),
		})
		return
	}

	result, ok := h.store.GetResult(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// List returns a filtered, sorted, paginated view of the caller's contracts.
func (h *ContractHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	statusFilter := c.Query("status")
	limit := intQuery(c, "limit", 10)
	offset := intQuery(c, "offset", 0)
	sortBy := c.DefaultQuery("sort_by", "upload_date")
	sortOrder := c.DefaultQuery("sort_order", "desc")

	contracts := h.store.List(tenant)

	if statusFilter != "" {
		filtered := contracts[:0]
		for _, s := range contracts {
			if s.State == statusFilter {
				filtered = append(filtered, s)
			}
		}
		contracts = filtered
	}

	desc := strings.EqualFold(sortOrder, "desc")
	sort.Slice(contracts, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "score":
			less = scoreOf(contracts[i]) < scoreOf(contracts[j])
		case "filename":
			less = contracts[i].Filename < contracts[j].Filename
		default:
			less = contracts[i].UploadedAt.Before(contracts[j].UploadedAt)
		}
		if desc {
			return !less
		}
		return less
	})

	total := len(contracts)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := contracts[offset:end]
	if page == nil {
		page = []model.ContractSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": page,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
		"has_more":  end < total,
	})
}

// Download streams the originally uploaded bytes back.
func (h *ContractHandler) Download(c *gin.Context) {
	id := c.Param("id")

	job, err := h.store.GetJob(id)
	if err != nil || job.Tenant != middleware.GetTenant(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	data, err := h.files.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch file: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.Filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Delete removes the contract and its stored file. A pipeline run already
// in flight is not stopped; the store discards its late writes.
func (h *ContractHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if !h.ownedByCaller(c, id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err := h.files.Delete(c.Request.Context(), id); err != nil {
		logger.Warn(c.Request.Context(), "failed to delete stored file", "contract_id", id, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted successfully"})
}

func (h *ContractHandler) ownedByCaller(c *gin.Context, id string) bool {
	job, err := h.store.GetJob(id)
	return err == nil && job.Tenant == middleware.GetTenant(c)
}

func scoreOf(s model.ContractSummary) float64 {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
