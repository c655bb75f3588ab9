// Package main 提供 netsession 演示命令行入口
//
// 在同一进程内启动一个主机和若干客户端，展示连接、准入拒绝和主机
// 结束会话的完整流程。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-netsession"
	"github.com/dep2p/go-netsession/config"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("netsession/cmd")

// flags 命令行参数
type flags struct {
	configFile   string
	clients      int
	method       string
	maxPlayers   int
	hold         time.Duration
	timeout      time.Duration
	identityFile string
	logLevel     string
	logFormat    string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var f flags
	flagSet := pflag.NewFlagSet("netsession", pflag.ContinueOnError)
	flagSet.StringVar(&f.configFile, "config", "", "配置文件路径（.json / .yaml）")
	flagSet.IntVarP(&f.clients, "clients", "n", 3, "客户端数量")
	flagSet.StringVar(&f.method, "method", "", "连接方式 (relay/direct)，默认取配置")
	flagSet.IntVar(&f.maxPlayers, "max-players", 0, "会话容量（含主机），0 = 取配置")
	flagSet.DurationVar(&f.hold, "hold", 2*time.Second, "全部客户端就绪后保持会话的时长")
	flagSet.DurationVar(&f.timeout, "timeout", 10*time.Second, "单个客户端等待连接结果的超时")
	flagSet.StringVar(&f.identityFile, "identity", "", "主机身份密钥文件路径")
	flagSet.StringVar(&f.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	flagSet.StringVar(&f.logFormat, "log-format", "", "日志格式 (text/json)")
	flagSet.BoolP("help", "h", false, "显示帮助信息")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if f.clients < 0 {
		return fmt.Errorf("clients must not be negative")
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	level, _ := log.ParseLevel(cfg.Log.Level)
	log.Setup(os.Stderr, level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDemo(ctx, cfg, f)
}

// loadConfig 配置文件 → 环境变量 → 命令行参数
func loadConfig(f flags) (*config.Config, error) {
	cfg := config.NewConfig()
	if f.configFile != "" {
		loaded, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if f.method != "" {
		cfg.Method.Kind = strings.ToLower(f.method)
	}
	if f.maxPlayers > 0 {
		cfg.Connection.MaxConnectedPlayers = f.maxPlayers
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.identityFile != "" {
		cfg.Identity.KeyFile = f.identityFile
		cfg.Identity.PlayerID = ""
	}
	return cfg, cfg.Validate()
}

// ============================================================================
//                              演示流程
// ============================================================================

func runDemo(ctx context.Context, cfg *config.Config, f flags) error {
	env, err := netsession.NewEnvironment()
	if err != nil {
		return err
	}
	relayMode := cfg.Method.Kind == config.MethodRelay

	// ─────────────────────────────────────────────────────────────────────
	// 主机
	// ─────────────────────────────────────────────────────────────────────
	host, err := netsession.New(
		netsession.WithEnvironment(env),
		netsession.WithConfig(cfg),
		netsession.WithPlayerName("host"),
	)
	if err != nil {
		return err
	}
	if err := host.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	stopMessages, err := printSessionMessages(host)
	if err != nil {
		return err
	}
	defer stopMessages()

	if relayMode {
		if _, err := host.Lobby().CreateLobby(ctx, "demo", f.clients+1); err != nil {
			return fmt.Errorf("create lobby: %w", err)
		}
	}
	if err := host.StartHost(ctx); err != nil {
		return err
	}
	waitCtx, cancel := context.WithTimeout(ctx, f.timeout)
	kind, err := host.AwaitState(waitCtx, types.StateHosting, types.StateOffline)
	cancel()
	if err != nil {
		return fmt.Errorf("host start: %w", err)
	}
	if kind != types.StateHosting {
		return fmt.Errorf("host start failed: %s", host.Status())
	}
	fmt.Printf("主机已就绪: player=%s method=%s capacity=%d\n",
		log.TruncateID(host.PlayerID(), 8), cfg.Method.Kind, cfg.Connection.MaxConnectedPlayers)

	// ─────────────────────────────────────────────────────────────────────
	// 客户端并发加入
	// ─────────────────────────────────────────────────────────────────────
	clients := make([]*netsession.Peer, f.clients)
	results := make([]types.ConnectionStatus, f.clients)

	g, gctx := errgroup.WithContext(ctx)
	for i := range clients {
		g.Go(func() error {
			p, status, err := joinSession(gctx, env, cfg, fmt.Sprintf("player-%d", i+1), relayMode, f.timeout)
			clients[i] = p
			results[i] = status
			return err
		})
	}
	err = g.Wait()
	defer func() {
		for _, p := range clients {
			if p != nil {
				_ = p.Close()
			}
		}
	}()
	if err != nil {
		return err
	}

	for i, status := range results {
		fmt.Printf("  player-%d: %s\n", i+1, status)
	}

	select {
	case <-time.After(f.hold):
	case <-ctx.Done():
	}

	// ─────────────────────────────────────────────────────────────────────
	// 主机结束会话
	// ─────────────────────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	if err := host.RequestShutdown(shutdownCtx); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(shutdownCtx)
	for i, p := range clients {
		if p == nil || results[i] != types.StatusSuccess {
			continue
		}
		g.Go(func() error {
			if _, err := p.AwaitState(gctx, types.StateOffline); err != nil {
				return fmt.Errorf("%s: %w", p.PlayerName(), err)
			}
			fmt.Printf("  %s 已离线: %s\n", p.PlayerName(), p.Status())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("会话已结束")
	return nil
}

// joinSession 创建客户端并等待连接结果
func joinSession(ctx context.Context, env *netsession.Environment, cfg *config.Config,
	name string, relayMode bool, timeout time.Duration) (*netsession.Peer, types.ConnectionStatus, error) {
	clientCfg := cfg.Clone()
	clientCfg.Identity.KeyFile = ""
	clientCfg.Identity.PlayerID = ""

	p, err := netsession.New(
		netsession.WithEnvironment(env),
		netsession.WithConfig(clientCfg),
		netsession.WithPlayerName(name),
	)
	if err != nil {
		return nil, types.StatusUndefined, err
	}
	if err := p.Start(ctx); err != nil {
		return nil, types.StatusUndefined, err
	}

	if relayMode {
		if _, err := p.Lobby().QuickJoin(ctx); err != nil {
			logger.Warn("加入大厅失败", "player", name, "err", err)
			return p, types.StatusStartClientFailed, nil
		}
	}

	// 先订阅再发起连接，只关心连接结果：SUCCESS 或任一失败原因
	done := make(chan types.ConnectionStatus, 1)
	unsubscribe := p.Subscribe(func(ev types.Event) {
		e, ok := ev.(types.StatusChangedEvent)
		if !ok || e.Status == types.StatusUndefined {
			return
		}
		select {
		case done <- e.Status:
		default:
		}
	})
	defer unsubscribe()

	if err := p.StartClient(ctx); err != nil {
		return p, types.StatusUndefined, err
	}

	select {
	case s := <-done:
		return p, s, nil
	case <-time.After(timeout):
		return p, p.Status(), nil
	case <-ctx.Done():
		return p, p.Status(), ctx.Err()
	}
}

// printSessionMessages 打印主机的会话消息
func printSessionMessages(host *netsession.Peer) (func(), error) {
	sub, err := host.EventBus().Subscribe(new(types.ConnectionEventMessage))
	if err != nil {
		return nil, err
	}
	go func() {
		for ev := range sub.Out() {
			if msg, ok := ev.(types.ConnectionEventMessage); ok {
				fmt.Printf("[会话] %s: %s\n", msg.PlayerName, msg.Status)
			}
		}
	}()
	return func() { _ = sub.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `netsession - 对等托管会话演示

在同一进程内启动一个主机和若干客户端：客户端并发加入，超出容量的
客户端被拒绝；保持一段时间后主机结束会话，全部客户端离线。

用法:
  netsession [flags]

参数:
`)
	flagSet.PrintDefaults()
}
