package registry

import (
	"context"
	"fmt"
	"net"
	"strconv"

	confv1 "product-catalog-go/internal/conf/v1"

	"github.com/google/uuid"
	"github.com/hashicorp/consul/api"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module 提供 Fx 模块
var Module = fx.Module("registry",
	fx.Provide(NewConsulRegistry),
)

// ConsulRegistry 将服务注册到 Consul，进程退出时注销
type ConsulRegistry struct {
	client    *api.Client
	serviceID string
}

// NewConsulRegistry 创建并注册 Consul 服务实例
// registry.enabled 为 false 时返回空实现
func NewConsulRegistry(lc fx.Lifecycle, cfg *confv1.Bootstrap, logger *zap.Logger, name string) (*ConsulRegistry, error) {
	if cfg.Registry == nil || !cfg.Registry.Enabled {
		logger.Info("Consul registry disabled")
		return &ConsulRegistry{}, nil
	}

	consulCfg := api.DefaultConfig()
	if cfg.Registry.Address != "" {
		consulCfg.Address = cfg.Registry.Address
	}

	client, err := api.NewClient(consulCfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	host, portStr, err := net.SplitHostPort(cfg.Server.Http.Addr)
	if err != nil {
		return nil, fmt.Errorf("parse server addr %q: %w", cfg.Server.Http.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse server port %q: %w", portStr, err)
	}

	healthAddr := cfg.Registry.HealthAddr
	if healthAddr == "" {
		healthAddr = fmt.Sprintf("http://%s/api/health", cfg.Server.Http.Addr)
	}

	serviceID := fmt.Sprintf("%s-%s", name, uuid.NewString())
	registration := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    name,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			HTTP:                           healthAddr,
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	registry := &ConsulRegistry{client: client, serviceID: serviceID}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Agent().ServiceRegister(registration); err != nil {
				return fmt.Errorf("register service to consul: %w", err)
			}
			logger.Info("Service registered to Consul",
				zap.String("service_id", serviceID),
				zap.String("consul_addr", consulCfg.Address),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := client.Agent().ServiceDeregister(serviceID); err != nil {
				logger.Error("Failed to deregister service from Consul", zap.Error(err))
				return err
			}
			logger.Info("Service deregistered from Consul", zap.String("service_id", serviceID))
			return nil
		},
	})

	return registry, nil
}
