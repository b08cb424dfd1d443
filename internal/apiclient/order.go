package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"

	"stroyka/internal/order/model"
)

const (
	serviceTypeID   = 1
	serviceTypeName = "Строительно-монтажные работы"
)

// UploadFile is one attachment of an order draft.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type DraftWorkType struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type DraftAddress struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// OrderDraft is the user input for CreateOrder.
type OrderDraft struct {
	WorkType          DraftWorkType `yaml:"workType"`
	OrderName         string        `yaml:"orderName"`
	Description       string        `yaml:"description"`
	AdditionalInfo    string        `yaml:"additionalInfo"`
	PlanStartDate     string        `yaml:"planStartDate"`
	PlanEndDate       string        `yaml:"planEndDate"`
	Address           DraftAddress  `yaml:"address"`
	OrderAmount       float64       `yaml:"orderAmount"`
	AdvancePercentage float64       `yaml:"advancePercentage"`
	AdvanceAmount     float64       `yaml:"advanceAmount"`
	Negotiable        bool          `yaml:"negotiable"`
	AdvanceInsurance  bool          `yaml:"advanceInsurance"`
	Published         bool          `yaml:"published"`
	Files             []UploadFile  `yaml:"-"`
}

type createOrderRequest struct {
	RequestBody orderRequestBody `json:"requestBody"`
}

type orderRequestBody struct {
	Categories        model.Categories  `json:"categories"`
	Name              string            `json:"name"`
	Description       *string           `json:"description"`
	AdditionalInfo    *string           `json:"additionalInfo"`
	PlanStartDate     string            `json:"planStartDate"`
	PlanEndDate       string            `json:"planEndDate"`
	Address           DraftAddress      `json:"address"`
	OrderAmount       float64           `json:"orderAmount"`
	AdvancePercentage float64           `json:"advancePercentage"`
	AdvanceAmount     float64           `json:"advanceAmount"`
	WorkTypeID        int64             `json:"workTypeId"`
	ServiceTypeID     int64             `json:"serviceTypeId"`
	Negotiable        bool              `json:"negotiable"`
	AdvanceInsurance  bool              `json:"advanceInsurance"`
	ProfileHidden     bool              `json:"profileHidden"`
	Published         bool              `json:"published"`
	FileRefs          []model.OrderFile `json:"fileRefs"`
	Details           []interface{}     `json:"details"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateOrder uploads the draft attachments one by one and then creates the order.
// The first failed upload aborts the whole operation.
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (*Payload, error) {
	fileRefs := []model.OrderFile{}
	if len(draft.Files) > 0 {
		var err error
		if fileRefs, err = c.UploadFiles(ctx, draft.Files); err != nil {
			return nil, fmt.Errorf("upload files: %w", err)
		}
	}

	payload := createOrderRequest{RequestBody: orderRequestBody{
		Categories: model.Categories{
			ServiceType: &model.Ref{ID: model.Flex(strconv.Itoa(serviceTypeID)), Name: serviceTypeName},
			WorkType:    &model.Ref{ID: model.Flex(strconv.FormatInt(draft.WorkType.ID, 10)), Name: draft.WorkType.Name},
		},
		Name:              draft.OrderName,
		Description:       nullable(draft.Description),
		AdditionalInfo:    nullable(draft.AdditionalInfo),
		PlanStartDate:     draft.PlanStartDate,
		PlanEndDate:       draft.PlanEndDate,
		Address:           draft.Address,
		OrderAmount:       draft.OrderAmount,
		AdvancePercentage: draft.AdvancePercentage,
		AdvanceAmount:     draft.AdvanceAmount,
		WorkTypeID:        draft.WorkType.ID,
		ServiceTypeID:     serviceTypeID,
		Negotiable:        draft.Negotiable,
		AdvanceInsurance:  draft.AdvanceInsurance,
		ProfileHidden:     false,
		Published:         draft.Published,
		FileRefs:          fileRefs,
		Details:           []interface{}{},
	}}
	c.logger.Debugw("order payload", "name", draft.OrderName, "workTypeId", draft.WorkType.ID, "files", len(fileRefs))

	header := http.Header{}
	header.Set("language", c.Language())
	return c.postJSON(ctx, c.cfg.CMRAPIURL+"/rest/api/v1/order", payload, header)
}

// UploadFiles sends files to the upload endpoint sequentially and returns their references in input order.
func (c *Client) UploadFiles(ctx context.Context, files []UploadFile) ([]model.OrderFile, error) {
	uploaded := make([]model.OrderFile, 0, len(files))
	for _, f := range files {
		result, err := c.uploadFile(ctx, f)
		if err != nil {
			c.logger.Errorf("upload %v failed: %v", f.Name, err)
			return nil, err
		}
		uploaded = append(uploaded, model.OrderFile{
			Type: model.FileType(f.ContentType),
			Name: f.Name,
			Ref:  result.FileRef,
			URL:  c.cfg.FilesBucketURL,
		})
	}
	return uploaded, nil
}

func (c *Client) uploadFile(ctx context.Context, f UploadFile) (*model.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(f.Name)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	partHeader.Set("Content-Type", contentType)

	part, err := mw.CreatePart(partHeader)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return nil, fmt.Errorf("read %v: %w", f.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CMRAPIURL+"/rest/files", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if auth := c.authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var result model.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload result: %w", err)
	}
	return &result, nil
}
