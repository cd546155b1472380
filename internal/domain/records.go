package domain

// HostnameResult is the output of the hostname command
type HostnameResult struct {
	Name string `json:"name"`
}

// DiskUsage is one filesystem row of `df -h`
type DiskUsage struct {
	FileSystem string `json:"file_system"`
	Size       string `json:"size"`
	Used       string `json:"used"`
	Available  string `json:"available"`
	UsePercent int    `json:"use_percent"` // 0..100
	MountPoint string `json:"mount_point"`
}

// DockerProcess is one container line of `docker ps --format '{{json .}}'`
type DockerProcess struct {
	Command    string `json:"Command"`
	CreatedAt  string `json:"CreatedAt"`
	Image      string `json:"Image"`
	Names      string `json:"Names"`
	RunningFor string `json:"RunningFor"`
	State      string `json:"State"`
	Status     string `json:"Status"`
}

// RouteEntry is one route of `ip -j route`
type RouteEntry struct {
	Dst      string   `json:"dst"`
	Gateway  *string  `json:"gateway,omitempty"`
	Dev      string   `json:"dev"`
	Protocol *string  `json:"protocol,omitempty"`
	Prefsrc  string   `json:"prefsrc"`
	Metric   *int     `json:"metric,omitempty"`
	Flags    []string `json:"flags"`
}

// AddrInfo is one address assigned to an interface
type AddrInfo struct {
	Family            string  `json:"family"`
	Local             string  `json:"local"`
	Prefixlen         int     `json:"prefixlen"`
	Scope             string  `json:"scope"`
	Label             *string `json:"label,omitempty"`
	Noprefixroute     *bool   `json:"noprefixroute,omitempty"`
	ValidLifeTime     int64   `json:"valid_life_time"`
	PreferredLifeTime int64   `json:"preferred_life_time"`
}

// AddressInfo is one interface of `ip -j address show`
type AddressInfo struct {
	Ifindex   int        `json:"ifindex"`
	Ifname    string     `json:"ifname"`
	Flags     []string   `json:"flags"`
	Mtu       int        `json:"mtu"`
	Qdisc     string     `json:"qdisc"`
	Operstate string     `json:"operstate"`
	Group     string     `json:"group"`
	Txqlen    *int       `json:"txqlen,omitempty"`
	LinkType  string     `json:"link_type"`
	Address   string     `json:"address"`
	Broadcast string     `json:"broadcast"`
	AddrInfo  []AddrInfo `json:"addr_info"`
}

// LinkInfo is one interface of `ip -j link show`
type LinkInfo struct {
	Ifindex   int      `json:"ifindex"`
	Ifname    string   `json:"ifname"`
	Flags     []string `json:"flags"`
	Mtu       int      `json:"mtu"`
	Qdisc     string   `json:"qdisc"`
	Operstate string   `json:"operstate"`
	Linkmode  string   `json:"linkmode"`
	Group     string   `json:"group"`
	Txqlen    *int     `json:"txqlen,omitempty"`
	LinkType  string   `json:"link_type"`
	Address   string   `json:"address"`
	Broadcast string   `json:"broadcast"`
}
