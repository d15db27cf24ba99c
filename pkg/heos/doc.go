// Package heos is a client for the HEOS CLI protocol spoken by Denon and
// Marantz network audio players on TCP port 1255.
//
// A Client is bound to one device address and, optionally, one player
// identity. Each method builds a heos:// command, performs a single
// request/response exchange and returns the decoded result:
//
//	c, err := heos.NewClient(heos.Config{
//	    Address: heos.DeviceAddress{Host: "192.168.1.20"},
//	    Player:  heos.PlayerIdentity{PersistentID: -1465850739},
//	})
//	res, err := c.SetVolume(ctx, 30)
//
// Every method returns (response.Result, error):
//   - validation or encoding problems return (nil, err) and nothing is
//     sent; err wraps command.ErrInvalidArgument or command.ErrEncoding
//   - transport problems return the *response.TransportFailure as both
//     values
//   - otherwise the error is nil and the result is *response.Structured or
//     *response.Unparseable. A device-side failure (result=fail) is still a
//     Structured result; inspect it with DeviceError.
//
// Helpers such as VolumeLevel and Players extract typed values from a
// Structured result.
package heos
