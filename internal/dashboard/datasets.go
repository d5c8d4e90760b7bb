package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/models"
)

// Upload messages shown next to the dataset form.
const (
	MsgUploadInvalid = "Please fill all fields and select a file"
	MsgUploadSuccess = "Dataset uploaded successfully"
	MsgUploadFailed  = "Failed to upload dataset"
)

// DatasetFile is the file part of an upload draft. Open is called once
// per submit, so a draft kept after a failed upload can be retried.
type DatasetFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// IsZero reports whether no file is selected.
func (f DatasetFile) IsZero() bool {
	return f.Name == "" || f.Open == nil
}

// FileFromPath selects a file on disk.
func FileFromPath(path string) (DatasetFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DatasetFile{}, fmt.Errorf("select file: %w", err)
	}
	if info.IsDir() {
		return DatasetFile{}, fmt.Errorf("select file: %s is a directory", path)
	}
	return DatasetFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileFromBytes selects in-memory content.
func FileFromBytes(name string, data []byte) DatasetFile {
	return DatasetFile{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// UploadDraft is the dataset being composed.
type UploadDraft struct {
	Name        string
	Description string
	File        DatasetFile
}

func (d UploadDraft) valid() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Description) != "" &&
		!d.File.IsZero()
}

// UploadState is a copy of the DatasetUploadController state.
type UploadState struct {
	Draft     UploadDraft
	Uploading bool
	Message   models.Message
	Datasets  []models.Dataset
	Loaded    bool
}

// DatasetUploadController validates and submits dataset uploads and keeps
// the dataset list. The list is only ever replaced by a fetch; uploads
// become visible on the refresh that follows them.
type DatasetUploadController struct {
	api      DatasetAPI
	settings settings

	mu    sync.Mutex
	state UploadState
}

// NewDatasetUploadController creates an upload controller.
func NewDatasetUploadController(api DatasetAPI, opts ...Option) *DatasetUploadController {
	return &DatasetUploadController{api: api, settings: newSettings(opts)}
}

func (c *DatasetUploadController) SetName(name string) {
	c.mu.Lock()
	c.state.Draft.Name = name
	c.mu.Unlock()
}

func (c *DatasetUploadController) SetDescription(description string) {
	c.mu.Lock()
	c.state.Draft.Description = description
	c.mu.Unlock()
}

func (c *DatasetUploadController) SetFile(file DatasetFile) {
	c.mu.Lock()
	c.state.Draft.File = file
	c.mu.Unlock()
}

// Submit uploads the current draft.
//
// It returns ErrInFlight while an upload is outstanding and ErrInvalidDraft
// when a field is empty; neither issues a request. On success the draft is
// cleared and the dataset list refreshed. On failure the draft is kept.
func (c *DatasetUploadController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Uploading {
		c.mu.Unlock()
		return ErrInFlight
	}
	draft := c.state.Draft
	if !draft.valid() {
		c.state.Message = models.ErrorMessage(MsgUploadInvalid)
		c.mu.Unlock()
		return ErrInvalidDraft
	}
	c.state.Uploading = true
	c.state.Message = models.Message{}
	c.mu.Unlock()

	err := c.upload(ctx, draft)

	c.mu.Lock()
	c.state.Uploading = false
	if err != nil {
		c.state.Message = models.ErrorMessage(MsgUploadFailed)
		c.mu.Unlock()
		c.settings.logger.Warn("dataset upload failed", "name", draft.Name, "error", err)
		return fmt.Errorf("upload dataset: %w", err)
	}
	c.state.Draft = UploadDraft{}
	c.state.Message = models.SuccessMessage(MsgUploadSuccess)
	c.mu.Unlock()

	c.settings.logger.Info("dataset uploaded", "name", draft.Name, "file", draft.File.Name)
	// The upload already succeeded; a failed refresh is only logged.
	_ = c.Refresh(ctx)
	return nil
}

func (c *DatasetUploadController) upload(ctx context.Context, draft UploadDraft) error {
	f, err := draft.File.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", draft.File.Name, err)
	}
	defer f.Close()

	_, err = c.api.UploadDataset(ctx, client.UploadInput{
		Name:        draft.Name,
		Description: draft.Description,
		FileName:    draft.File.Name,
		Content:     f,
	})
	return err
}

// Activate loads the dataset list when the datasets view is opened.
func (c *DatasetUploadController) Activate(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh replaces the dataset list with the backend's. A failed refresh
// keeps the previous list.
func (c *DatasetUploadController) Refresh(ctx context.Context) error {
	datasets, err := c.api.ListDatasets(ctx)
	if err != nil {
		c.settings.logger.Warn("list datasets failed", "error", err)
		return fmt.Errorf("list datasets: %w", err)
	}

	c.mu.Lock()
	c.state.Datasets = datasets
	c.state.Loaded = true
	c.mu.Unlock()
	return nil
}

// State returns a copy of the current state.
func (c *DatasetUploadController) State() UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Datasets = append([]models.Dataset(nil), c.state.Datasets...)
	return st
}
