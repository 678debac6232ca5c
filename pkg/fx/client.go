package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// 默认取开放汇率接口, 可通过环境变量覆盖
const DefaultBaseURL = "https://open.er-api.com/v6"

// Client 汇率API客户端
type Client struct {
	http    *resty.Client
	baseURL string
}

// ratesResp 接口响应体 (open.er-api.com 格式)
type ratesResp struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// NewClient 创建汇率客户端, 统一超时与重试
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("User-Agent", "Pricing-Go-App/1.0")

	return &Client{http: client, baseURL: baseURL}
}

// FetchUSDRates 拉取以USD计价的最新汇率表 (1 USD = rate 目标币种)
func (c *Client) FetchUSDRates(ctx context.Context) (map[string]float64, error) {
	var body ratesResp
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/latest/USD", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("请求汇率接口失败: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("汇率接口返回 %d", resp.StatusCode())
	}
	if body.Result != "success" || len(body.Rates) == 0 {
		return nil, fmt.Errorf("汇率接口响应异常: result=%s", body.Result)
	}
	return body.Rates, nil
}
