package amocrm

// Client hands out managers that share one transport, configuration and
// account metadata cache.
type Client struct {
	settings

	transport Transport
	account   *accountCache
}

// NewClient returns a client executing requests through transport.
func NewClient(transport Transport, opts ...Option) *Client {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Client{
		settings:  s,
		transport: transport,
		account:   &accountCache{},
	}
}

// Manager returns a manager for entity. Account metadata fetched through any
// of the client's managers is reused by all of them.
func (c *Client) Manager(entity Entity) *Manager {
	s := c.settings
	s.logger = c.logger.Named(entity.Name)
	return &Manager{
		settings:  s,
		entity:    entity,
		transport: c.transport,
		account:   c.account,
	}
}
