package model

import (
	"encoding/json"
	"fmt"
)

type Response struct {
	Data    interface{} `json:"data"`
	Status  RestStatus  `json:"status"`
	Metrics Metrics     `json:"metrics"`
}

type Metrics struct {
	ResultSize    int    `json:"result_size"`
	ResultCount   int    `json:"result_count"`
	TimeExecution string `json:"time_execution"`
}

type RestStatus struct {
	Description string `json:"description"`
	Status      int    `json:"status"`
	Code        string `json:"code"`
	Error       error  `json:"error"`
}

func (r RestStatus) MarshalJSON() ([]byte, error) {
	type RestStatusJson struct {
		Description string `json:"description"`
		Status      int    `json:"status"`
		Code        string `json:"code"`
		Error       string `json:"error,omitempty"`
	}

	var n = RestStatusJson{}
	n.Description = r.Description
	n.Status = r.Status
	n.Code = r.Code
	if r.Error != nil {
		n.Error = fmt.Sprint(r.Error)
	}

	return json.Marshal(n)
}
