package ws

// Core fans audit events out to connected dashboard clients. A slow client
// gets dropped rather than blocking the broadcast loop.
type Core struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *StreamMessage
}

func NewCore() *Core {
	return &Core{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *StreamMessage, 256),
	}
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.clients[cl] = struct{}{}

		case cl := <-c.unregister:
			if _, ok := c.clients[cl]; ok {
				delete(c.clients, cl)
				close(cl.Message)
			}

		case msg := <-c.broadcast:
			for cl := range c.clients {
				select {
				case cl.Message <- msg:
				default:
					// client can't keep up; drop it
					delete(c.clients, cl)
					close(cl.Message)
				}
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *StreamMessage {
	return c.broadcast
}
