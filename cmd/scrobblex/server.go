package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"scrobblex/conf"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/validator"
)

// Router 加载路由，使用侧提供接口，实现侧需要实现该接口
type Router interface {
	Load(engine *gin.Engine)
}

type Server struct {
	config   *conf.Config
	onClose  []func() error
	shutdown time.Duration
}

func NewServer(c *conf.Config) *Server {
	return &Server{
		config:   c,
		shutdown: 5 * time.Second,
	}
}

// Handler 创建gin实例并加载路由，测试时可直接使用
func (s *Server) Handler(rs ...Router) *gin.Engine {
	// 设置gin启动模式，必须在创建gin实例之前
	if s.config.Mode != "" {
		gin.SetMode(s.config.Mode)
	}
	g := gin.New()
	// 服务层拿到的 ctx 跟随请求取消，客户端断开时不再等锁
	g.ContextWithFallback = true
	// gin validator替换
	validator.LazyInitGinValidator(s.config.Language)
	for _, r := range rs {
		r.Load(g)
	}
	return g
}

func (s *Server) Run(rs ...Router) {
	var wg sync.WaitGroup
	wg.Add(1)

	// health check
	go func() {
		if err := Ping(s.config.Listen, s.config.MaxPingCount); err != nil {
			logger.Fatal("server no response")
		}
		logger.Infof("server started success! port: %s", s.config.Listen)
	}()

	srv := http.Server{
		Addr:              s.config.Listen,
		Handler:           s.Handler(rs...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// graceful shutdown
	sgn := make(chan os.Signal, 1)
	signal.Notify(sgn, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sgn
		logger.Infof("server shutdown")
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("server shutdown err %v", err)
		}
		wg.Done()
	}()

	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Errorf("server start failed on port %s: %v", s.config.Listen, err)
		return
	}
	wg.Wait()
	if err := s.close(); err != nil {
		logger.Errorf("release resources: %v", err)
	}
	logger.Infof("server stop on port %s", s.config.Listen)
}

// RegisterOnShutdown 注册shutdown后的回调处理函数，用于清理资源，按注册的逆序执行
func (s *Server) RegisterOnShutdown(f func() error) {
	s.onClose = append(s.onClose, f)
}

func (s *Server) close() error {
	var err error
	for i := len(s.onClose) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.onClose[i]())
	}
	return err
}

// Ping 用来检查是否程序正常启动
func Ping(port string, maxCount int) error {
	seconds := 1
	if len(port) == 0 {
		return fmt.Errorf("please specify the service port")
	}
	if !strings.HasPrefix(port, ":") {
		if i := strings.LastIndex(port, ":"); i >= 0 {
			port = port[i:]
		} else {
			port = ":" + port
		}
	}
	url := fmt.Sprintf("http://localhost%s/ping", port)
	for i := 0; i < maxCount; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		logger.Infof("等待服务在线, 已等待 %d 秒，最多等待 %d 秒", seconds, maxCount)
		time.Sleep(time.Second * 1)
		seconds++
	}
	return fmt.Errorf("服务启动失败，端口 %s", port)
}
