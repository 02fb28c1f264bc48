package discovery

import (
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPort is the UDP port used for server discovery.
	DefaultPort = 9998
	// BroadcastInterval is how often servers advertise themselves.
	BroadcastInterval = 1 * time.Second
	// ServerExpiry is how long a server stays visible after its last broadcast.
	ServerExpiry = 4 * time.Second
)

// ServerInfo describes a robots server on the network.
type ServerInfo struct {
	Name     string `json:"name"`
	GameAddr string `json:"game_addr"` // TCP host:port to connect to
	Sessions int    `json:"sessions"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Robots   int    `json:"robots"`
	Strategy string `json:"strategy"`
}

// --- Broadcaster ---

// Broadcaster periodically sends UDP broadcast packets with server info.
type Broadcaster struct {
	info     ServerInfo
	port     int
	sessions func() int
	logger   *zap.Logger
	done     chan struct{}
	mu       sync.Mutex
}

// NewBroadcaster creates a server broadcaster sending to port. sessions,
// if non-nil, is polled before every broadcast for the live session count.
func NewBroadcaster(info ServerInfo, port int, sessions func() int, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{
		info:     info,
		port:     port,
		sessions: sessions,
		logger:   logger.Named("discovery"),
		done:     make(chan struct{}),
	}
}

// Start begins broadcasting server info via UDP.
func (b *Broadcaster) Start() error {
	// Use ListenPacket (not DialUDP) so broadcast works on Linux.
	// DialUDP to 255.255.255.255 silently fails without SO_BROADCAST.
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return fmt.Errorf("create broadcast socket: %w", err)
	}
	go b.broadcastLoop(conn)
	return nil
}

// Stop stops the broadcaster.
func (b *Broadcaster) Stop() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func (b *Broadcaster) broadcastLoop(conn net.PacketConn) {
	defer conn.Close()

	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	// Send immediately on start, then on tick
	b.sendBroadcast(conn)

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.sendBroadcast(conn)
		}
	}
}

func (b *Broadcaster) sendBroadcast(conn net.PacketConn) {
	b.mu.Lock()
	if b.sessions != nil {
		b.info.Sessions = b.sessions()
	}
	data, err := json.Marshal(b.info)
	b.mu.Unlock()
	if err != nil {
		b.logger.Error("marshal server info", zap.Error(err))
		return
	}

	// 1. Always send to loopback for same-machine discovery
	//    (255.255.255.255 broadcast is often dropped by Linux firewall)
	loopback := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: b.port}
	if _, err := conn.WriteTo(data, loopback); err != nil {
		b.logger.Debug("loopback broadcast failed", zap.Error(err))
	}

	// 2. Try global broadcast
	conn.WriteTo(data, &net.UDPAddr{IP: net.IPv4bcast, Port: b.port})

	// 3. Also broadcast on each interface's specific broadcast address
	b.broadcastOnInterfaces(conn, data)
}

// broadcastOnInterfaces sends to each interface's broadcast address as a fallback.
func (b *Broadcaster) broadcastOnInterfaces(conn net.PacketConn, data []byte) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			dst := &net.UDPAddr{IP: broadcastAddr(ipnet), Port: b.port}
			conn.WriteTo(data, dst)
		}
	}
}

// broadcastAddr computes IP | ^mask for an IPv4 network.
func broadcastAddr(ipnet *net.IPNet) net.IP {
	ip4 := ipnet.IP.To4()
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	broadcast := make(net.IP, 4)
	for i := range broadcast {
		broadcast[i] = ip4[i] | ^mask[i]
	}
	return broadcast
}

// --- Listener ---

// discoveredServer holds a server and when it was last seen.
type discoveredServer struct {
	Info     ServerInfo
	LastSeen time.Time
}

// Listener listens for UDP server advertisements.
type Listener struct {
	port    int
	servers map[string]*discoveredServer // keyed by GameAddr
	mu      sync.RWMutex
	conn    *net.UDPConn
	done    chan struct{}
}

// NewListener creates a listener for port. Port 0 picks a free port,
// readable from Port after Start.
func NewListener(port int) *Listener {
	return &Listener{
		port:    port,
		servers: make(map[string]*discoveredServer),
		done:    make(chan struct{}),
	}
}

// Start begins listening for server broadcasts.
func (l *Listener) Start() error {
	addr := &net.UDPAddr{
		Port: l.port,
		IP:   net.IPv4zero,
	}

	var err error
	l.conn, err = net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("listen UDP on port %d: %w (is another client browsing?)", l.port, err)
	}
	l.port = l.conn.LocalAddr().(*net.UDPAddr).Port

	go l.listenLoop()
	go l.cleanupLoop()

	return nil
}

// Port returns the UDP port being listened on.
func (l *Listener) Port() int {
	return l.port
}

// Stop stops the listener.
func (l *Listener) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	if l.conn != nil {
		l.conn.Close()
	}
}

// Servers returns the currently visible servers ordered by address.
func (l *Listener) Servers() []ServerInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	servers := make([]ServerInfo, 0, len(l.servers))
	for _, ds := range l.servers {
		servers = append(servers, ds.Info)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].GameAddr < servers[j].GameAddr })
	return servers
}

// WaitForServer polls until at least one server is visible or timeout
// elapses.
func (l *Listener) WaitForServer(timeout time.Duration) (ServerInfo, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if servers := l.Servers(); len(servers) > 0 {
			return servers[0], true
		}
		if time.Now().After(deadline) {
			return ServerInfo{}, false
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (l *Listener) listenLoop() {
	buf := make([]byte, 4096)
	for {
		select {
		case <-l.done:
			return
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		var info ServerInfo
		if err := json.Unmarshal(buf[:n], &info); err != nil || info.GameAddr == "" {
			continue
		}

		l.mu.Lock()
		l.servers[info.GameAddr] = &discoveredServer{
			Info:     info,
			LastSeen: time.Now(),
		}
		l.mu.Unlock()
	}
}

func (l *Listener) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for addr, ds := range l.servers {
				if now.Sub(ds.LastSeen) > ServerExpiry {
					delete(l.servers, addr)
				}
			}
			l.mu.Unlock()
		}
	}
}
