// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ipc

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// maxAncillaryFDs bounds the ancillary buffer allocation; the
// transport only ever passes exactly one fd per message.
const maxAncillaryFDs = 1

// Send writes a control header for code, and — if payload is
// non-empty — maps it into a freshly created, sealed memfd and passes
// that fd alongside the header over conn.
func Send(conn *net.UnixConn, code MessageCode, payload []byte) error {
	h := Header{Code: code, PayloadLen: uint64(len(payload))}

	if len(payload) == 0 {
		_, err := h.WriteTo(conn)
		return err
	}

	fd, err := writeToMemfd(payload)
	if err != nil {
		return fmt.Errorf("ipc: %w", err)
	}
	defer unix.Close(fd)

	hdrBuf := h.Encode()
	rights := unix.UnixRights(fd)

	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sendErr error
	err = raw.Control(func(s uintptr) {
		sendErr = unix.Sendmsg(int(s), hdrBuf[:], rights, nil, 0)
	})
	if err != nil {
		return err
	}
	return sendErr
}

// Receive reads one control header from conn and, if it declares a
// payload, drains the ancillary buffer for the passed fd and maps it
// read-only at the declared length. The caller must call the returned
// release func once done with payload (it unmaps the region).
func Receive(conn *net.UnixConn) (code MessageCode, payload []byte, release func(), err error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return 0, nil, nil, err
	}

	hdrBuf := make([]byte, HeaderSize)
	oob := make([]byte, unix.CmsgSpace(maxAncillaryFDs*4))

	var n, oobn int
	var recvErr error
	err = raw.Read(func(s uintptr) bool {
		for {
			n, oobn, _, _, recvErr = unix.Recvmsg(int(s), hdrBuf, oob, 0)
			if recvErr != unix.EINTR {
				break
			}
		}
		// Returning false on EAGAIN waits until the socket is readable
		// and calls this function again.
		return recvErr != unix.EAGAIN
	})
	if err != nil {
		return 0, nil, nil, err
	}
	if recvErr != nil {
		return 0, nil, nil, recvErr
	}
	if n < HeaderSize {
		return 0, nil, nil, ErrTruncatedRead
	}

	h := DecodeHeader(hdrBuf)
	if !validCode(h.Code) {
		return 0, nil, nil, ErrBadCode
	}
	if h.PayloadLen == 0 {
		return h.Code, nil, func() {}, nil
	}

	if oobn == 0 {
		return 0, nil, nil, ErrNoAncillaryFD
	}
	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("ipc: %w", err)
	}
	var fds []int
	for _, c := range cmsgs {
		parsed, err := unix.ParseUnixRights(&c)
		if err != nil {
			continue
		}
		fds = append(fds, parsed...)
	}
	if len(fds) == 0 {
		return 0, nil, nil, ErrNoAncillaryFD
	}
	fd := fds[0]
	for _, extra := range fds[1:] {
		unix.Close(extra)
	}

	mapping, err := unix.Mmap(fd, 0, int(h.PayloadLen), unix.PROT_READ, unix.MAP_SHARED)
	unix.Close(fd)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("ipc: mmap payload: %w", err)
	}
	return h.Code, mapping, func() { unix.Munmap(mapping) }, nil
}

func validCode(c MessageCode) bool { return c <= Info }

// writeToMemfd creates an anonymous, sealed memory object containing
// payload and returns its file descriptor.
func writeToMemfd(payload []byte) (int, error) {
	fd, err := unix.MemfdCreate("wallbg-ipc", unix.MFD_ALLOW_SEALING)
	if err != nil {
		return -1, fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(len(payload))); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("ftruncate: %w", err)
	}
	mapping, err := unix.Mmap(fd, 0, len(payload), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("mmap: %w", err)
	}
	copy(mapping, payload)
	if err := unix.Munmap(mapping); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("munmap: %w", err)
	}
	// Seal against shrinking so a peer holding the fd cannot truncate
	// the region out from under a concurrent reader.
	_, _ = unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK)
	return fd, nil
}
