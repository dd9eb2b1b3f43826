package server

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modeltx/modeltx/pkg/modeltx/core"
	"github.com/modeltx/modeltx/pkg/modeltx/txn"
)

// OperationInput names one operation and its parameters.
type OperationInput struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// OperationOutcome is the per-operation slice of a batch result.
type OperationOutcome struct {
	Index     int            `json:"index"`
	Name      string         `json:"name"`
	Success   bool           `json:"success"`
	ErrorKind string         `json:"error_kind,omitempty"`
	Error     string         `json:"error,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// CheckpointInfo is one checkpoint of a transaction group's log.
type CheckpointInfo struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

type ListOperationsInput struct{}

type ListOperationsOutput struct {
	Operations []string `json:"operations"`
}

func (s *Server) listOperations(_ context.Context, _ *mcp.CallToolRequest, _ ListOperationsInput) (*mcp.CallToolResult, ListOperationsOutput, error) {
	return nil, ListOperationsOutput{Operations: s.engine.Registry.Names()}, nil
}

type RunBatchInput struct {
	Name        string           `json:"name,omitempty"`
	StopOnError bool             `json:"stop_on_error,omitempty"`
	Operations  []OperationInput `json:"operations"`
}

type RunBatchOutput struct {
	Success        bool               `json:"success"`
	Succeeded      int                `json:"succeeded"`
	Failed         int                `json:"failed"`
	RolledBack     bool               `json:"rolled_back"`
	RollbackReason string             `json:"rollback_reason,omitempty"`
	Results        []OperationOutcome `json:"results"`
}

func (s *Server) runBatch(ctx context.Context, _ *mcp.CallToolRequest, input RunBatchInput) (*mcp.CallToolResult, RunBatchOutput, error) {
	ops := make([]core.Operation, len(input.Operations))
	for i, op := range input.Operations {
		ops[i] = core.Operation{Name: op.Name, Params: op.Params}
	}
	result, err := s.engine.Executor.Run(ctx, ops, core.BatchOptions{
		Name:        input.Name,
		StopOnError: input.StopOnError,
	})
	if err != nil {
		return nil, RunBatchOutput{}, err
	}
	out := RunBatchOutput{
		Success:        result.Failed == 0 && !result.RolledBack,
		Succeeded:      result.Succeeded,
		Failed:         result.Failed,
		RolledBack:     result.RolledBack,
		RollbackReason: result.RollbackReason,
		Results:        make([]OperationOutcome, len(result.Entries)),
	}
	for i, entry := range result.Entries {
		out.Results[i] = OperationOutcome{
			Index:     entry.Index,
			Name:      entry.Name,
			Success:   entry.Result.Success,
			ErrorKind: string(entry.Result.ErrorKind),
			Error:     entry.Result.ErrorMessage,
			Payload:   entry.Result.Payload,
		}
	}
	return nil, out, nil
}

type ExecuteOperationInput struct {
	Name        string         `json:"name"`
	Params      map[string]any `json:"params,omitempty"`
	DisplayName string         `json:"display_name,omitempty"`
}

type ExecuteOperationOutput struct {
	Success    bool           `json:"success"`
	RolledBack bool           `json:"rolled_back"`
	ErrorKind  string         `json:"error_kind,omitempty"`
	Error      string         `json:"error,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func (s *Server) executeOperation(ctx context.Context, _ *mcp.CallToolRequest, input ExecuteOperationInput) (*mcp.CallToolResult, ExecuteOperationOutput, error) {
	safe, err := s.engine.Executor.SafeExecute(ctx, core.Operation{
		Name:   input.Name,
		Params: input.Params,
	}, input.DisplayName)
	if err != nil {
		return nil, ExecuteOperationOutput{}, err
	}
	return nil, ExecuteOperationOutput{
		Success:    safe.Result.Success,
		RolledBack: safe.RolledBack,
		ErrorKind:  string(safe.Result.ErrorKind),
		Error:      safe.Result.ErrorMessage,
		Payload:    safe.Result.Payload,
	}, nil
}

type VerifyExecuteInput struct {
	Operation OperationInput `json:"operation"`
	Verify    OperationInput `json:"verify"`
}

type VerifyExecuteOutput struct {
	Success     bool           `json:"success"`
	Phase       string         `json:"phase"`
	RolledBack  bool           `json:"rolled_back"`
	Error       string         `json:"error,omitempty"`
	VerifyError string         `json:"verify_error,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

func (s *Server) verifyExecute(ctx context.Context, _ *mcp.CallToolRequest, input VerifyExecuteInput) (*mcp.CallToolResult, VerifyExecuteOutput, error) {
	result, err := s.engine.Executor.VerifyAndRollback(ctx,
		core.Operation{Name: input.Operation.Name, Params: input.Operation.Params},
		core.Operation{Name: input.Verify.Name, Params: input.Verify.Params},
	)
	if err != nil {
		return nil, VerifyExecuteOutput{}, err
	}
	out := VerifyExecuteOutput{
		Success:    !result.RolledBack,
		Phase:      string(result.Phase),
		RolledBack: result.RolledBack,
		Error:      result.Main.ErrorMessage,
		Payload:    result.Main.Payload,
	}
	if result.Verify != nil {
		out.VerifyError = result.Verify.ErrorMessage
	}
	return nil, out, nil
}

type StartGroupInput struct {
	Name string `json:"name"`
}

type StartGroupOutput struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	ActiveGroup string `json:"active_group,omitempty"`
}

func (s *Server) startGroup(_ context.Context, _ *mcp.CallToolRequest, input StartGroupInput) (*mcp.CallToolResult, StartGroupOutput, error) {
	if err := s.engine.Session.Start(input.Name); err != nil {
		var active *txn.AlreadyActiveError
		if errors.As(err, &active) {
			return nil, StartGroupOutput{
				Error:       "AlreadyActive",
				ActiveGroup: active.Active,
			}, nil
		}
		return nil, StartGroupOutput{}, err
	}
	return nil, StartGroupOutput{Success: true, ActiveGroup: input.Name}, nil
}

type AddCheckpointInput struct {
	Label string `json:"label"`
}

type AddCheckpointOutput struct {
	Success         bool   `json:"success"`
	Error           string `json:"error,omitempty"`
	CheckpointCount int    `json:"checkpoint_count,omitempty"`
}

func (s *Server) addCheckpoint(_ context.Context, _ *mcp.CallToolRequest, input AddCheckpointInput) (*mcp.CallToolResult, AddCheckpointOutput, error) {
	if err := s.engine.Session.AddCheckpoint(input.Label); err != nil {
		var stateErr *core.StateError
		if errors.As(err, &stateErr) {
			return nil, AddCheckpointOutput{Error: stateErr.Error()}, nil
		}
		return nil, AddCheckpointOutput{}, err
	}
	return nil, AddCheckpointOutput{
		Success:         true,
		CheckpointCount: s.engine.Session.Status().CheckpointCount,
	}, nil
}

type GroupCloseInput struct{}

type GroupCloseOutput struct {
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
	Checkpoints []CheckpointInfo `json:"checkpoints,omitempty"`
}

func (s *Server) commitGroup(_ context.Context, _ *mcp.CallToolRequest, _ GroupCloseInput) (*mcp.CallToolResult, GroupCloseOutput, error) {
	checkpoints, err := s.engine.Session.Commit()
	if err != nil {
		return groupCloseFailure(err)
	}
	return nil, GroupCloseOutput{Success: true, Checkpoints: checkpointInfos(checkpoints)}, nil
}

func (s *Server) rollbackGroup(_ context.Context, _ *mcp.CallToolRequest, _ GroupCloseInput) (*mcp.CallToolResult, GroupCloseOutput, error) {
	checkpoints, err := s.engine.Session.Rollback()
	if err != nil {
		return groupCloseFailure(err)
	}
	return nil, GroupCloseOutput{Success: true, Checkpoints: checkpointInfos(checkpoints)}, nil
}

// groupCloseFailure maps expected commit/rollback failures to success=false
// output: illegal transitions and commits the document refused. Anything
// else stays a hard error.
func groupCloseFailure(err error) (*mcp.CallToolResult, GroupCloseOutput, error) {
	var stateErr *core.StateError
	var resErr *core.ResourceError
	if errors.As(err, &stateErr) || errors.As(err, &resErr) {
		return nil, GroupCloseOutput{Error: err.Error()}, nil
	}
	return nil, GroupCloseOutput{}, err
}

type TransactionStatusInput struct{}

type TransactionStatusOutput struct {
	HasActive       bool             `json:"has_active"`
	Name            string           `json:"name,omitempty"`
	State           string           `json:"state"`
	CheckpointCount int              `json:"checkpoint_count"`
	Checkpoints     []CheckpointInfo `json:"checkpoints,omitempty"`
}

func (s *Server) transactionStatus(_ context.Context, _ *mcp.CallToolRequest, _ TransactionStatusInput) (*mcp.CallToolResult, TransactionStatusOutput, error) {
	status := s.engine.Session.Status()
	return nil, TransactionStatusOutput{
		HasActive:       status.HasActive,
		Name:            status.Name,
		State:           string(status.State),
		CheckpointCount: status.CheckpointCount,
		Checkpoints:     checkpointInfos(status.Checkpoints),
	}, nil
}

func checkpointInfos(checkpoints []txn.Checkpoint) []CheckpointInfo {
	out := make([]CheckpointInfo, len(checkpoints))
	for i, cp := range checkpoints {
		out[i] = CheckpointInfo{Label: cp.Label, At: cp.At}
	}
	return out
}
