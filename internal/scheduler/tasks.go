package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOrdersPhoneReformat = "orders.phone.reformat"

// OrdersPhoneReformatPayload asks the worker to re-render stored order phones.
// OutputFormat records the style that triggered the task; the worker always
// applies the policy current at run time. The payload carries nothing about
// who saved the settings so queue uniqueness collapses saves by any admin.
type OrdersPhoneReformatPayload struct {
	OutputFormat string `json:"outputFormat"`
	BatchSize    int    `json:"batchSize,omitempty"`
}

func NewOrdersPhoneReformatTask(payload OrdersPhoneReformatPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrdersPhoneReformat, data), nil
}

func ParseOrdersPhoneReformatPayload(task *asynq.Task) (OrdersPhoneReformatPayload, error) {
	var payload OrdersPhoneReformatPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrdersPhoneReformatPayload{}, err
	}
	return payload, nil
}
