// internal/common/camunda/job.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeVariables validates the job variables against the task's input schema and
// unmarshals them into input. Failures are INVALID_INPUT errors.
func DecodeVariables(job entities.Job, taskType string, v *validation.Validator, input interface{}) error {
	raw := job.Variables
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}

	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("failed to parse variables: %v", err))
	}
	if result := v.Validate(taskType, vars); !result.Valid {
		return errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}
	if err := json.Unmarshal([]byte(raw), input); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("failed to parse variables: %v", err))
	}
	return nil
}

// CompleteJob completes the job with output as its variables. A gateway hiccup is
// retried with DefaultRetryPolicy so a computed score is not thrown away.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	request, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("failed to set variables: %w", err)
	}
	_, err = Retry(ctx, DefaultRetryPolicy, "complete job", func(ctx context.Context) (*pb.CompleteJobResponse, error) {
		return request.Send(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}
