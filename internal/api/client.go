package api

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client 目录服务 REST 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	movies *utils.TTLCache[model.Movie]
	roles  *cache.Cache
	group  singleflight.Group
}

// Option 客户端可选配置
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout 单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMovieCache 影片详情缓存
func WithMovieCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		c.movies = utils.NewTTLCache[model.Movie](size, ttl)
	}
}

// WithRoleCacheTTL 角色列表缓存时间
func WithRoleCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.roles = cache.New(ttl, 2*ttl)
	}
}

// NewClient 创建客户端
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
		movies: utils.NewTTLCache[model.Movie](256, 5*time.Minute),
		roles:  cache.New(10*time.Minute, 20*time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL 服务基础地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do 发送请求；token 非空时附带 Bearer 头，非 2xx 返回 *Error
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("请求失败", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("请求 %s %s 失败: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return err
	}

	c.logger.Debug("HTTP",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Warn("解析JSON失败", zap.String("path", path), zap.ByteString("body", respBody), zap.Error(err))
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}

// readBody 按 Content-Encoding 解压响应体
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("创建gzip读取器失败: %w", err)
		}
		reader = gz
		defer reader.Close()
	case "deflate":
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	default:
		reader = resp.Body
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	return body, nil
}
