//go:build linux
// +build linux

package joystick

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

const (
	ioctlButtons = 0x80016a12 // JSIOCGBUTTONS
	ioctlBtnMap  = 0x84006a34 // JSIOCGBTNMAP
	nameLength   = 128
)

// ioctlName is JSIOCGNAME(len).
func ioctlName(length int) uintptr {
	return 0x80000000 | uintptr(length)<<16 | 0x6a13
}

func devicePath(id int) string {
	return fmt.Sprintf("/dev/input/js%d", id)
}

func open(id int) (int, error) {
	if id < 0 || id >= maxDevices {
		return -1, fmt.Errorf("%w %d: id out of range", ErrOpenDevice, id)
	}
	fd, err := unix.Open(devicePath(id), unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("%w %d: %v", ErrOpenDevice, id, err)
	}
	return fd, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// Probe lists the joysticks that can be opened.
func (b *Backend) Probe() ([]contracts.DeviceInfo, error) {
	var devices []contracts.DeviceInfo
	for id := 0; id < maxDevices; id++ {
		fd, err := open(id)
		if err != nil {
			continue
		}
		name := make([]byte, nameLength)
		if err := ioctl(fd, ioctlName(nameLength), unsafe.Pointer(&name[0])); err != nil {
			b.logger.Warn("could not get joystick name", b.logger.Field().Int("id", id), b.logger.Field().Error("error", err))
		}
		unix.Close(fd)

		devices = append(devices, contracts.DeviceInfo{
			Backend:    BackendName,
			ID:         id,
			Name:       unix.ByteSliceToString(name),
			EntityName: devicePath(id),
		})
	}
	return devices, nil
}

// Connect opens the joystick and reads its button layout.
func (b *Backend) Connect(device contracts.DeviceInfo) (contracts.InputConnection, error) {
	fd, err := open(device.ID)
	if err != nil {
		return nil, err
	}

	log := b.logger.With(b.logger.Field().String("input", device.Name))
	c := &connection{fd: fd, buttons: buttonMap{logger: log}}
	if err := ioctl(fd, ioctlButtons, unsafe.Pointer(&c.buttons.buttons)); err != nil {
		log.Warn("could not get button count", log.Field().Error("error", err))
	}
	if err := ioctl(fd, ioctlBtnMap, unsafe.Pointer(&c.buttons.codes[0])); err != nil {
		log.Warn("could not get button map", log.Field().Error("error", err))
	}
	return c, nil
}

type connection struct {
	fd      int
	buttons buttonMap
	buf     [eventSize]byte
}

// Read drains queued events until one maps to a command.
func (c *connection) Read() (contracts.Command, bool, error) {
	for {
		n, err := unix.Read(c.fd, c.buf[:])
		if errors.Is(err, unix.EAGAIN) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, fmt.Errorf("joystick read: %w", err)
		}
		if n < eventSize {
			return 0, false, nil
		}
		if cmd, ok := c.buttons.command(decodeEvent(c.buf[:])); ok {
			return cmd, true, nil
		}
	}
}

func (c *connection) Close() error {
	return unix.Close(c.fd)
}
