// Package erphttp implements the remote business-object service
// contracts over the ERP's REST API. Every call posts a JSON payload and
// unwraps the dataset from either the returnObj or parameters.ds envelope
// member, whichever the endpoint uses.
package erphttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/erp"
)

const defaultTimeout = 30 * time.Second

// Config holds the ERP API endpoint and credentials
type Config struct {
	BaseURL  string
	APIKey   string
	Username string
	Password string
	Timeout  time.Duration
}

// Client is an HTTP implementation of the labor, kanban and job services
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// Interface compliance
var (
	_ erp.LaborService  = (*Client)(nil)
	_ erp.KanbanService = (*Client)(nil)
	_ erp.JobService    = (*Client)(nil)
)

// NewClient creates a client for the configured ERP endpoint. A nil
// logger falls back to slog.Default().
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// envelope is the response wrapper the business-object endpoints use
type envelope struct {
	ReturnObj  json.RawMessage `json:"returnObj"`
	Parameters struct {
		DS json.RawMessage `json:"ds"`
	} `json:"parameters"`
}

// odataValue wraps OData query results
type odataValue[T any] struct {
	Value []T `json:"value"`
}

func (c *Client) do(ctx context.Context, step, method, endpoint string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, erp.WrapStep(step, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+"/"+endpoint, body)
	if err != nil {
		return nil, erp.WrapStep(step, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("x-api-key", c.config.APIKey)
	}
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	c.logger.Debug("erp call", "step", step, "endpoint", endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, erp.WrapStep(step, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, erp.WrapStep(step, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		stepErr := erp.NewStepError(step, resp.StatusCode, string(respBody))
		c.logger.Error("erp call failed", "step", step, "status", resp.StatusCode, "body", stepErr.Body)
		return nil, stepErr
	}
	return respBody, nil
}

// postDataset posts a payload and decodes the dataset from the response
// envelope into out. parameters.ds wins over returnObj when both appear.
func (c *Client) postDataset(ctx context.Context, step, endpoint string, payload, out any) error {
	respBody, err := c.do(ctx, step, http.MethodPost, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return erp.WrapStep(step, fmt.Errorf("decode envelope: %w", err))
	}
	raw := env.Parameters.DS
	if len(raw) == 0 {
		raw = env.ReturnObj
	}
	if len(raw) == 0 {
		return erp.WrapStep(step, fmt.Errorf("response carried no dataset"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return erp.WrapStep(step, fmt.Errorf("decode dataset: %w", err))
	}
	return nil
}

// --- LaborService ---

// ClockIn opens a clock-in session for the employee
func (c *Client) ClockIn(ctx context.Context, employeeID string, shift int) error {
	_, err := c.do(ctx, "ClockIn", http.MethodPost, "Erp.BO.EmpBasicSvc/ClockIn", map[string]any{
		"employeeID": employeeID,
		"shift":      shift,
	})
	return err
}

// GetActiveHeaders returns the employee's open session headers, most
// recent first
func (c *Client) GetActiveHeaders(ctx context.Context, employeeID string) ([]erp.LaborHed, error) {
	filter := fmt.Sprintf("EmployeeNum eq '%s' and ActiveTrans eq true", employeeID)
	endpoint := "Erp.BO.LaborSvc/Labors?$filter=" + url.QueryEscape(filter) + "&$orderby=" + url.QueryEscape("LaborHedSeq desc")
	respBody, err := c.do(ctx, "GetActiveHeaders", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var result odataValue[erp.LaborHed]
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, erp.WrapStep("GetActiveHeaders", err)
	}
	return result.Value, nil
}

// GetActiveDetails returns the open detail rows across the employee's
// active sessions
func (c *Client) GetActiveDetails(ctx context.Context, employeeID string) ([]erp.LaborDtl, error) {
	filter := fmt.Sprintf("EmployeeNum eq '%s' and ActiveTrans eq true", employeeID)
	endpoint := "Erp.BO.LaborSvc/Labors?$filter=" + url.QueryEscape(filter) + "&$expand=LaborDtls"
	respBody, err := c.do(ctx, "GetActiveDetails", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	type headerWithDetails struct {
		LaborHedSeq int           `json:"LaborHedSeq"`
		LaborDtls   []erp.LaborDtl `json:"LaborDtls"`
	}
	var result odataValue[headerWithDetails]
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, erp.WrapStep("GetActiveDetails", err)
	}

	var details []erp.LaborDtl
	for _, hed := range result.Value {
		for _, dtl := range hed.LaborDtls {
			if !dtl.ActiveTrans {
				continue
			}
			dtl.LaborHedSeq = hed.LaborHedSeq
			details = append(details, dtl)
		}
	}
	return details, nil
}

// GetByID fetches the full labor dataset for a session header
func (c *Client) GetByID(ctx context.Context, laborHedSeq int) (*erp.LaborDataset, error) {
	var ds erp.LaborDataset
	err := c.postDataset(ctx, "GetByID", "Erp.BO.LaborSvc/GetByID", map[string]any{
		"laborHedSeq": laborHedSeq,
	}, &ds)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// StartActivity creates a fresh labor detail under the header
func (c *Client) StartActivity(ctx context.Context, laborHedSeq int, startType string, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "StartActivity", "Erp.BO.LaborSvc/StartActivity", map[string]any{
		"LaborHedSeq": laborHedSeq,
		"StartType":   startType,
		"ds":          ds,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DefaultJobNum applies remote job defaulting
func (c *Client) DefaultJobNum(ctx context.Context, jobNum string, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "DefaultJobNum", "Erp.BO.LaborSvc/DefaultJobNum", map[string]any{
		"jobNum": jobNum,
		"ds":     ds,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DefaultOprSeq applies remote operation defaulting
func (c *Client) DefaultOprSeq(ctx context.Context, oprSeq int, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "DefaultOprSeq", "Erp.BO.LaborSvc/DefaultOprSeq", map[string]any{
		"OprSeq": oprSeq,
		"ds":     ds,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// EndActivity transitions the active detail out of active state
func (c *Client) EndActivity(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "EndActivity", "Erp.BO.LaborSvc/EndActivity", map[string]any{"ds": ds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update persists rows marked with a RowMod
func (c *Client) Update(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "Update", "Erp.BO.LaborSvc/Update", map[string]any{"ds": ds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecallFromApproval pulls a submitted detail back to editable state
func (c *Client) RecallFromApproval(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "RecallFromApproval", "Erp.BO.LaborSvc/RecallFromApproval", map[string]any{"ds": ds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitForApproval re-enters the detail into the approval workflow
func (c *Client) SubmitForApproval(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	var out erp.LaborDataset
	err := c.postDataset(ctx, "SubmitForApproval", "Erp.BO.LaborSvc/SubmitForApproval", map[string]any{"ds": ds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- KanbanService ---

// GetNewReceipt creates a new empty receipt row
func (c *Client) GetNewReceipt(ctx context.Context) (*erp.KanbanDataset, error) {
	var ds erp.KanbanDataset
	err := c.postDataset(ctx, "KanbanReceiptsGetNew", "Erp.BO.KanbanReceiptsSvc/KanbanReceiptsGetNew", map[string]any{}, &ds)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// ChangePart validates and populates part data on the receipt
func (c *Client) ChangePart(ctx context.Context, ds *erp.KanbanDataset, partNum, uomCode string) (*erp.KanbanDataset, error) {
	var out erp.KanbanDataset
	err := c.postDataset(ctx, "ChangePart", "Erp.BO.KanbanReceiptsSvc/ChangePart", map[string]any{
		"ds":      ds,
		"partNum": partNum,
		"uomCode": uomCode,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeWarehouse revalidates the destination warehouse
func (c *Client) ChangeWarehouse(ctx context.Context, ds *erp.KanbanDataset, warehouseCode string) (*erp.KanbanDataset, error) {
	var out erp.KanbanDataset
	err := c.postDataset(ctx, "ChangeWarehouse", "Erp.BO.KanbanReceiptsSvc/ChangeWarehouse", map[string]any{
		"ds":            ds,
		"warehouseCode": warehouseCode,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeBin revalidates the destination bin
func (c *Client) ChangeBin(ctx context.Context, ds *erp.KanbanDataset, binNum string) (*erp.KanbanDataset, error) {
	var out erp.KanbanDataset
	err := c.postDataset(ctx, "ChangeBin", "Erp.BO.KanbanReceiptsSvc/ChangeBin", map[string]any{
		"ds":     ds,
		"binNum": binNum,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PreProcess validates the receipt before commit
func (c *Client) PreProcess(ctx context.Context, ds *erp.KanbanDataset) (*erp.KanbanDataset, error) {
	var out erp.KanbanDataset
	err := c.postDataset(ctx, "PreProcessKanbanReceipts", "Erp.BO.KanbanReceiptsSvc/PreProcessKanbanReceipts", map[string]any{"ds": ds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Process commits the receipt: creates the job, reports, closes and
// receives to stock in one remote transaction
func (c *Client) Process(ctx context.Context, ds *erp.KanbanDataset) error {
	_, err := c.do(ctx, "ProcessKanbanReceipts", http.MethodPost, "Erp.BO.KanbanReceiptsSvc/ProcessKanbanReceipts", map[string]any{
		"ds":           ds,
		"dSerialNoQty": 0,
	})
	return err
}

// --- JobService ---

// GetJobByID fetches the job entry dataset
func (c *Client) GetJobByID(ctx context.Context, jobNum string) (*erp.JobDataset, error) {
	var ds erp.JobDataset
	err := c.postDataset(ctx, "JobGetByID", "Erp.BO.JobEntrySvc/GetByID", map[string]any{
		"jobNum": jobNum,
	}, &ds)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// UpdateJob persists job rows marked with a RowMod
func (c *Client) UpdateJob(ctx context.Context, ds *erp.JobDataset) (*erp.JobDataset, error) {
	var out erp.JobDataset
	err := c.postDataset(ctx, "JobUpdate", "Erp.BO.JobEntrySvc/Update", map[string]any{"ds": ds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
