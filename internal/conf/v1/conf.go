// Package conf 定义应用的 Bootstrap 配置结构。
// 字段带 json tag，供 mapstructure 按 snake_case 键解码。
package conf

// Bootstrap 顶层配置
type Bootstrap struct {
	Server   *Server   `json:"server,omitempty"`
	Data     *Data     `json:"data,omitempty"`
	Auth     *Auth     `json:"auth,omitempty"`
	Trace    *Trace    `json:"trace,omitempty"`
	Registry *Registry `json:"registry,omitempty"`
}

// Server 服务器配置
type Server struct {
	Http *HTTP `json:"http,omitempty"`
}

// HTTP HTTP 服务器配置
type HTTP struct {
	Addr string `json:"addr,omitempty"`
	// CorsOrigin 允许跨域访问的前端来源，为空时允许所有来源
	CorsOrigin string `json:"cors_origin,omitempty"`
}

// Data 数据源配置
type Data struct {
	Database *Database `json:"database,omitempty"`
	Redis    *Redis    `json:"redis,omitempty"`
}

// Database PostgreSQL 配置
type Database struct {
	Host     string `json:"host,omitempty"`
	Port     int32  `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	DbName   string `json:"db_name,omitempty"`
	SslMode  string `json:"ssl_mode,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Redis Redis 配置
type Redis struct {
	Host         string `json:"host,omitempty"`
	Port         int32  `json:"port,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	Db           int32  `json:"db,omitempty"`
	DialTimeout  int32  `json:"dial_timeout,omitempty"`
	ReadTimeout  int32  `json:"read_timeout,omitempty"`
	WriteTimeout int32  `json:"write_timeout,omitempty"`
	PoolSize     int32  `json:"pool_size,omitempty"`
	MinIdleConns int32  `json:"min_idle_conns,omitempty"`
	// CacheTtlSeconds 商品缓存的过期时间（秒）
	CacheTtlSeconds int32 `json:"cache_ttl_seconds,omitempty"`
}

// Auth 认证配置
type Auth struct {
	JwtSecret      string `json:"jwt_secret,omitempty"`
	JwtExpireHours int32  `json:"jwt_expire_hours,omitempty"`
}

// Trace 链路追踪配置
type Trace struct {
	Enabled  bool   `json:"enabled,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Insecure bool   `json:"insecure,omitempty"`
}

// Registry 注册中心配置
type Registry struct {
	Enabled bool   `json:"enabled,omitempty"`
	Address string `json:"address,omitempty"`
	// HealthAddr 注册到 Consul 的健康检查地址，为空时根据 Server.Http.Addr 推导
	HealthAddr string `json:"health_addr,omitempty"`
}
