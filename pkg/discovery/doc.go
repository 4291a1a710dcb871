// Package discovery finds MPD servers on the local network via mDNS.
//
// MPD installations commonly announce themselves as an _mpd._tcp
// service (through the zeroconf plugin or Avahi). Browse streams
// servers as they appear, aggregating addresses seen on multiple
// interfaces; Find returns the first one:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	server, err := discovery.Find(ctx, discovery.Config{})
//	if err != nil {
//	    return err
//	}
//	c, err := client.Dial(ctx, "tcp", server.Addr(), nil)
package discovery
